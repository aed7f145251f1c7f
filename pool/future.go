package pool

import (
	"context"
	"sync"
)

// Future is the completion handle returned by SubmitFuture. It is resolved
// exactly once, after its job has run on a worker.
type Future struct {
	done chan struct{}
	once sync.Once
	err  error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Done returns a channel that is closed when the job has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// IsReady reports whether the job has finished, without blocking.
func (f *Future) IsReady() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Err returns the *PanicError if the job panicked. It returns nil while the
// job is still pending and after a clean run.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Wait blocks until the job has finished or ctx is done. It returns the
// job's *PanicError, nil after a clean run, or ctx.Err().
func (f *Future) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
