// Package pool provides a bounded worker-pool dispatcher.
//
// A Pool owns a fixed number of long-lived worker goroutines and one shared
// FIFO job queue. Callers hand it fire-and-forget jobs with Submit; an idle
// worker dequeues each job and runs it exactly once. Shutting the pool down
// closes the queue, lets the workers drain every job that was accepted, and
// waits for all of them to exit.
//
// # Basic Usage
//
//	p, err := pool.New(4)
//	if err != nil {
//	    return err
//	}
//	defer p.Close()
//
//	for _, conn := range conns {
//	    conn := conn
//	    if err := p.Submit(func() { handle(conn) }); err != nil {
//	        log.Printf("dropped connection: %v", err)
//	    }
//	}
//
// # Completion Handles
//
// Submit does not report completion. When a caller needs to know that a job
// finished, SubmitFuture returns a Future that is resolved after the job runs:
//
//	f, _ := p.SubmitFuture(job)
//	if err := f.Wait(ctx); err != nil {
//	    var pe *pool.PanicError
//	    if errors.As(err, &pe) {
//	        // the job panicked on worker pe.WorkerID
//	    }
//	}
//
// # Queue Strategies
//
// The queue is unbounded by default, so Submit never waits for capacity. A
// bounded queue is selected with WithQueueStrategy and WithQueueCapacity, and
// WithBackpressure decides whether a full queue blocks the submitter or
// rejects the job with ErrQueueFull:
//
//	p, err := pool.New(8,
//	    pool.WithQueueStrategy(pool.QueueMPMC),
//	    pool.WithQueueCapacity(1024),
//	    pool.WithBackpressure(pool.BackpressureReject),
//	)
//
// # Failure Containment
//
// A job that panics is recovered on its worker. The panic is converted into
// a *PanicError, logged, passed to the WithOnPanic hook, and the worker goes
// on to the next job. Pool availability is never affected.
//
// # Options
//
//   - WithQueueStrategy(s): QueueUnbounded (default), QueueChannel or QueueMPMC
//   - WithQueueCapacity(n): capacity of a bounded queue
//   - WithBackpressure(p): BackpressureBlock (default) or BackpressureReject
//   - WithRateLimit(perSecond, burst): throttle how fast workers start jobs
//   - WithCPUAffinity(): pin each worker to its own OS thread and core
//   - WithLogger(l), WithMetrics(m): observability
//   - WithBeforeJob, WithAfterJob, WithOnPanic: lifecycle hooks
package pool
