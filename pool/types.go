package pool

import (
	"fmt"
	"runtime"
)

// Job is a unit of deferred work. It captures whatever state it needs and is
// executed exactly once on some worker. Submitting a job transfers it to the
// pool; the submitter keeps no handle to it.
type Job func()

// task is the queued envelope around a Job.
type task struct {
	id     int64
	job    Job
	future *Future // nil for fire-and-forget submissions
}

// PanicError reports a job that panicked while running on a worker.
type PanicError struct {
	WorkerID int
	TaskID   int64
	Value    any
	Stack    []byte
}

func newPanicError(workerID int, taskID int64, value any) *PanicError {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return &PanicError{
		WorkerID: workerID,
		TaskID:   taskID,
		Value:    value,
		Stack:    buf[:n],
	}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("job %d panicked on worker %d: %v", e.TaskID, e.WorkerID, e.Value)
}

// Unwrap exposes the panic value when the job panicked with an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Stats is a point-in-time snapshot of pool counters.
type Stats struct {
	Workers   int
	Busy      int
	Pending   int
	Submitted int64
	Completed int64
	Panicked  int64
}

// Logger is the subset of a levelled logger the pool writes to.
type Logger interface {
	Debugf(format string, args ...any)
	Errorf(format string, args ...any)
}
