package pool

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/utkarsh5026/webpool/internal/scheduler"
)

// Pool is a fixed set of workers fed by one shared job queue.
//
// The worker count is chosen at construction and never changes. All methods
// are safe for concurrent use.
type Pool struct {
	size  int
	conf  *poolConfig
	queue scheduler.Queue[*task]

	done     chan struct{} // closed when every worker has exited
	shutdown atomic.Bool

	taskIDCounter atomic.Int64
	submitted     atomic.Int64
	busy          atomic.Int64
	completed     atomic.Int64
	panicked      atomic.Int64
}

// New creates a pool of size workers and starts them immediately.
//
// It fails without starting any worker when size is less than 1 or when the
// configured queue cannot be built.
//
// Example:
//
//	p, err := pool.New(4, pool.WithQueueStrategy(pool.QueueChannel), pool.WithQueueCapacity(64))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer p.Close()
func New(size int, opts ...Option) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	cfg := createConfig(opts...)

	queue, err := scheduler.New[*task](cfg.queue)
	if err != nil {
		return nil, fmt.Errorf("creating job queue: %w", err)
	}

	p := &Pool{
		size:  size,
		conf:  cfg,
		queue: queue,
		done:  make(chan struct{}),
	}
	cfg.metrics.observeQueue(queue.Len)

	var g errgroup.Group
	for i := range size {
		g.Go(func() error {
			p.worker(i)
			return nil
		})
	}

	go func() {
		_ = g.Wait()
		close(p.done)
	}()

	cfg.log.Debugf("started %d workers (queue=%s)", size, cfg.queue.Strategy)
	return p, nil
}

// Submit enqueues job for execution by some worker and returns without
// waiting for it to run.
//
// It returns ErrNilJob for a nil job, ErrPoolClosed once Shutdown has begun,
// and ErrQueueFull when a bounded queue with BackpressureReject is full.
// With BackpressureBlock and a full bounded queue, Submit waits for space.
func (p *Pool) Submit(job Job) error {
	_, err := p.submit(job, nil)
	return err
}

// SubmitFuture is like Submit but also returns a Future that is resolved
// once the job has run.
func (p *Pool) SubmitFuture(job Job) (*Future, error) {
	f := newFuture()
	if _, err := p.submit(job, f); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *Pool) submit(job Job, f *Future) (int64, error) {
	if job == nil {
		return 0, ErrNilJob
	}

	if p.shutdown.Load() {
		p.conf.metrics.jobRejected()
		return 0, ErrPoolClosed
	}

	t := &task{
		id:     p.taskIDCounter.Add(1),
		job:    job,
		future: f,
	}

	if err := p.queue.Send(t); err != nil {
		p.conf.metrics.jobRejected()
		if errors.Is(err, scheduler.ErrQueueClosed) {
			return 0, fmt.Errorf("%w: %w", ErrPoolClosed, err)
		}
		return 0, err
	}

	p.submitted.Add(1)
	p.conf.metrics.jobSubmitted()
	return t.id, nil
}

// Shutdown stops accepting jobs, then blocks until every job accepted so far
// has run and every worker has exited.
//
// A timeout of zero or less waits forever. If workers are still running when
// the timeout expires, Shutdown returns ErrShutdownTimeout and the workers
// keep draining in the background. Only the first call performs the
// shutdown; later calls return ErrPoolClosed.
//
// Example:
//
//	if err := p.Shutdown(5 * time.Second); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
func (p *Pool) Shutdown(timeout time.Duration) error {
	if !p.shutdown.CompareAndSwap(false, true) {
		return ErrPoolClosed
	}

	p.conf.log.Debugf("shutting down, %d jobs pending", p.queue.Len())

	// Workers see the closed sentinel only after the queue is drained.
	p.queue.Close()

	if err := waitUntil(p.done, timeout); err != nil {
		return err
	}

	p.conf.log.Debugf("all %d workers exited", p.size)
	return nil
}

// Close shuts the pool down and waits without a deadline for it to drain.
func (p *Pool) Close() error {
	return p.Shutdown(0)
}

// Done returns a channel that is closed once every worker has exited.
func (p *Pool) Done() <-chan struct{} {
	return p.done
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return p.size
}

// Pending returns the approximate number of queued jobs not yet picked up.
func (p *Pool) Pending() int {
	return p.queue.Len()
}

// Stats returns a snapshot of the pool counters.
func (p *Pool) Stats() Stats {
	return Stats{
		Workers:   p.size,
		Busy:      int(p.busy.Load()),
		Pending:   p.queue.Len(),
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Panicked:  p.panicked.Load(),
	}
}
