package pool

import (
	"golang.org/x/time/rate"

	"github.com/utkarsh5026/webpool/internal/logger"
	"github.com/utkarsh5026/webpool/internal/scheduler"
)

// QueueStrategy selects the job queue implementation.
type QueueStrategy = scheduler.Strategy

const (
	// QueueUnbounded grows without limit; Submit never waits for capacity.
	QueueUnbounded = scheduler.StrategyUnbounded
	// QueueChannel is a fixed-capacity buffered channel.
	QueueChannel = scheduler.StrategyChannel
	// QueueMPMC is a fixed-capacity lock-free ring buffer.
	QueueMPMC = scheduler.StrategyMPMC
)

// BackpressurePolicy decides what Submit does when a bounded queue is full.
type BackpressurePolicy = scheduler.Policy

const (
	// BackpressureBlock makes Submit wait until a worker frees a slot.
	BackpressureBlock = scheduler.PolicyBlock
	// BackpressureReject makes Submit fail with ErrQueueFull.
	BackpressureReject = scheduler.PolicyReject
)

// ParseQueueStrategy converts "unbounded", "channel" or "mpmc" into a QueueStrategy.
func ParseQueueStrategy(name string) (QueueStrategy, error) {
	return scheduler.ParseStrategy(name)
}

// ParseBackpressure converts "block" or "reject" into a BackpressurePolicy.
func ParseBackpressure(name string) (BackpressurePolicy, error) {
	return scheduler.ParsePolicy(name)
}

// Option is a functional option for configuring a Pool.
type Option func(*poolConfig)

type poolConfig struct {
	queue       scheduler.Config
	rateLimiter *rate.Limiter
	cpuAffinity bool
	log         Logger
	metrics     *Metrics

	beforeJob func(workerID int)
	afterJob  func(workerID int, err error)
	onPanic   func(err *PanicError)
}

func createConfig(opts ...Option) *poolConfig {
	cfg := &poolConfig{
		queue: scheduler.Config{
			Strategy: QueueUnbounded,
			Policy:   BackpressureBlock,
		},
		log: logger.Default.With("pool"),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// WithQueueStrategy selects the queue implementation.
// Bounded strategies also need WithQueueCapacity.
func WithQueueStrategy(s QueueStrategy) Option {
	return func(cfg *poolConfig) {
		cfg.queue.Strategy = s
	}
}

// WithQueueCapacity sets the capacity of a bounded queue.
// The MPMC queue rounds it up to a power of two.
func WithQueueCapacity(capacity int) Option {
	return func(cfg *poolConfig) {
		if capacity > 0 {
			cfg.queue.Capacity = capacity
		}
	}
}

// WithBackpressure sets the full-queue policy of a bounded queue.
func WithBackpressure(p BackpressurePolicy) Option {
	return func(cfg *poolConfig) {
		cfg.queue.Policy = p
	}
}

// WithRateLimit limits how many jobs per second the workers start, across the
// whole pool. Jobs beyond the rate wait in the queue; none are dropped.
//
// Example:
//
//	WithRateLimit(100, 10) // 100 jobs/sec with a burst of 10
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cfg *poolConfig) {
		if perSecond > 0 && burst > 0 {
			cfg.rateLimiter = rate.NewLimiter(rate.Limit(perSecond), burst)
		}
	}
}

// WithCPUAffinity locks every worker to an OS thread pinned to core
// workerID % NumCPU, where the platform supports it.
func WithCPUAffinity() Option {
	return func(cfg *poolConfig) {
		cfg.cpuAffinity = true
	}
}

// WithLogger replaces the default logger. A nil logger, including a nil
// *logger.Logger, keeps the default.
func WithLogger(l Logger) Option {
	return func(cfg *poolConfig) {
		if l == nil {
			return
		}
		if lg, ok := l.(*logger.Logger); ok && lg == nil {
			return
		}
		cfg.log = l
	}
}

// WithMetrics records pool activity in m.
func WithMetrics(m *Metrics) Option {
	return func(cfg *poolConfig) {
		cfg.metrics = m
	}
}

// WithBeforeJob registers a hook called on the worker right before each job.
func WithBeforeJob(fn func(workerID int)) Option {
	return func(cfg *poolConfig) {
		cfg.beforeJob = fn
	}
}

// WithAfterJob registers a hook called on the worker after each job.
// err is a *PanicError if the job panicked and nil otherwise.
func WithAfterJob(fn func(workerID int, err error)) Option {
	return func(cfg *poolConfig) {
		cfg.afterJob = fn
	}
}

// WithOnPanic registers a hook called when a job panics.
func WithOnPanic(fn func(err *PanicError)) Option {
	return func(cfg *poolConfig) {
		cfg.onPanic = fn
	}
}
