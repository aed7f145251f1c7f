package scheduler

import "sync"

// unboundedQueue is a FIFO ring buffer that doubles when full.
// A single mutex guards all state; idle receivers park on cond.
type unboundedQueue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    []T
	head   int
	size   int
	closed bool
}

func newUnboundedQueue[T any](initialCapacity int) *unboundedQueue[T] {
	q := &unboundedQueue[T]{
		buf: make([]T, nextPowerOfTwo(initialCapacity)),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *unboundedQueue[T]) Send(v T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	if q.size == len(q.buf) {
		q.grow()
	}

	q.buf[(q.head+q.size)&(len(q.buf)-1)] = v
	q.size++
	q.cond.Signal()
	return nil
}

func (q *unboundedQueue[T]) Receive() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size == 0 && !q.closed {
		q.cond.Wait()
	}

	var zero T
	if q.size == 0 {
		return zero, false
	}

	v := q.buf[q.head]
	q.buf[q.head] = zero
	q.head = (q.head + 1) & (len(q.buf) - 1)
	q.size--
	return v, true
}

func (q *unboundedQueue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

func (q *unboundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// grow doubles the ring and unwraps pending values to the front.
// Callers hold q.mu.
func (q *unboundedQueue[T]) grow() {
	next := make([]T, len(q.buf)*2)
	n := copy(next, q.buf[q.head:])
	copy(next[n:], q.buf[:q.head])
	q.buf = next
	q.head = 0
}
