package pool

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors for a pool.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	JobsSubmitted prometheus.Counter
	JobsCompleted prometheus.Counter
	JobsPanicked  prometheus.Counter
	JobsRejected  prometheus.Counter
	BusyWorkers   prometheus.Gauge
	JobDuration   prometheus.Histogram
	QueueDepth    prometheus.GaugeFunc

	depth atomic.Pointer[func() int]
}

// NewMetrics creates the pool collectors under namespace and registers them
// with reg. A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer, namespace string) *Metrics {
	const subsystem = "pool"

	m := &Metrics{
		JobsSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_submitted_total",
			Help:      "Total number of jobs accepted by the pool queue",
		}),
		JobsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_completed_total",
			Help:      "Total number of jobs that ran without panicking",
		}),
		JobsPanicked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_panicked_total",
			Help:      "Total number of jobs that panicked and were recovered",
		}),
		JobsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "jobs_rejected_total",
			Help:      "Total number of submissions refused because the queue was full or closed",
		}),
		BusyWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "busy_workers",
			Help:      "Number of workers currently running a job",
		}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "job_duration_seconds",
			Help:      "Histogram of job execution time",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.QueueDepth = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "queue_depth",
		Help:      "Number of jobs waiting for a worker",
	}, func() float64 {
		if fn := m.depth.Load(); fn != nil {
			return float64((*fn)())
		}
		return 0
	})

	if reg != nil {
		reg.MustRegister(
			m.JobsSubmitted,
			m.JobsCompleted,
			m.JobsPanicked,
			m.JobsRejected,
			m.BusyWorkers,
			m.JobDuration,
			m.QueueDepth,
		)
	}
	return m
}

func (m *Metrics) observeQueue(length func() int) {
	if m == nil {
		return
	}
	m.depth.Store(&length)
}

func (m *Metrics) jobSubmitted() {
	if m != nil {
		m.JobsSubmitted.Inc()
	}
}

func (m *Metrics) jobRejected() {
	if m != nil {
		m.JobsRejected.Inc()
	}
}

func (m *Metrics) jobCompleted(d time.Duration) {
	if m != nil {
		m.JobsCompleted.Inc()
		m.JobDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) jobPanicked(d time.Duration) {
	if m != nil {
		m.JobsPanicked.Inc()
		m.JobDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) workerBusy(delta float64) {
	if m != nil {
		m.BusyWorkers.Add(delta)
	}
}
