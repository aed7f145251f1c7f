package pool

import (
	"errors"
	"time"

	"github.com/utkarsh5026/webpool/internal/scheduler"
)

var (
	ErrInvalidSize     = errors.New("pool size must be at least 1")
	ErrNilJob          = errors.New("job is nil")
	ErrPoolClosed      = errors.New("pool is shut down")
	ErrShutdownTimeout = errors.New("error in shutting down: timeout reached")

	// ErrQueueFull is returned by Submit when a bounded queue with the
	// BackpressureReject policy has no room.
	ErrQueueFull = scheduler.ErrQueueFull
)

// waitUntil blocks until either the done channel is closed or the timeout is reached.
// It is used during graceful shutdown to wait for workers to complete their tasks.
func waitUntil(d <-chan struct{}, timeout time.Duration) error {
	if timeout <= 0 {
		<-d
		return nil
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-d:
		return nil
	case <-timer.C:
		return ErrShutdownTimeout
	}
}
