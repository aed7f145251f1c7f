package pool

import (
	"context"
	"time"

	"github.com/utkarsh5026/webpool/internal/cpu"
)

// worker is the loop run by each worker goroutine. It blocks in Receive while
// idle, runs each job to completion, and returns once the queue is closed and
// drained.
func (p *Pool) worker(id int) {
	if p.conf.cpuAffinity {
		// The worker exits still locked so the runtime discards the pinned
		// thread rather than handing it to unrelated goroutines.
		if _, err := cpu.Pin(id); err != nil {
			p.conf.log.Debugf("worker %d: cpu pinning unavailable: %v", id, err)
		}
	}

	for {
		t, ok := p.queue.Receive()
		if !ok {
			return
		}
		p.execute(id, t)
	}
}

// execute runs one task with rate limiting, hooks, metrics and panic
// recovery. Nothing the job does can stop the calling worker.
func (p *Pool) execute(workerID int, t *task) {
	if p.conf.rateLimiter != nil {
		// Wait only fails for a cancelled context or a zero burst; neither
		// can happen here.
		_ = p.conf.rateLimiter.Wait(context.Background())
	}

	p.busy.Add(1)
	p.conf.metrics.workerBusy(1)

	if p.conf.beforeJob != nil {
		p.callHook("before-job", func() { p.conf.beforeJob(workerID) })
	}

	start := time.Now()
	perr := runWithRecovery(workerID, t)
	elapsed := time.Since(start)

	p.busy.Add(-1)
	p.conf.metrics.workerBusy(-1)

	var err error
	if perr != nil {
		err = perr
		p.panicked.Add(1)
		p.conf.metrics.jobPanicked(elapsed)
		p.conf.log.Errorf("worker %d: %v", workerID, perr)
		p.conf.log.Debugf("worker %d: stack trace:\n%s", workerID, perr.Stack)
		if p.conf.onPanic != nil {
			p.callHook("on-panic", func() { p.conf.onPanic(perr) })
		}
	} else {
		p.completed.Add(1)
		p.conf.metrics.jobCompleted(elapsed)
	}

	if p.conf.afterJob != nil {
		p.callHook("after-job", func() { p.conf.afterJob(workerID, err) })
	}

	if t.future != nil {
		t.future.resolve(err)
	}
}

// runWithRecovery runs the job and converts a panic into a *PanicError.
func runWithRecovery(workerID int, t *task) (perr *PanicError) {
	defer func() {
		if r := recover(); r != nil {
			perr = newPanicError(workerID, t.id, r)
		}
	}()

	t.job()
	return nil
}

// callHook runs a user hook, logging instead of propagating a panic.
func (p *Pool) callHook(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			p.conf.log.Errorf("%s hook panicked: %v", name, r)
		}
	}()
	fn()
}
