package scheduler

import "sync"

// channelQueue wraps a buffered channel. The channel is only closed while
// holding the write lock, so no Send can race with close(ch).
type channelQueue[T any] struct {
	ch     chan T
	quit   chan struct{} // closed first, to release senders blocked on a full channel
	policy Policy
	mu     sync.RWMutex
	closed bool
	once   sync.Once
}

func newChannelQueue[T any](capacity int, policy Policy) *channelQueue[T] {
	return &channelQueue[T]{
		ch:     make(chan T, capacity),
		quit:   make(chan struct{}),
		policy: policy,
	}
}

func (q *channelQueue[T]) Send(v T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	if q.policy == PolicyReject {
		select {
		case q.ch <- v:
			return nil
		default:
			return ErrQueueFull
		}
	}

	select {
	case q.ch <- v:
		return nil
	case <-q.quit:
		return ErrQueueClosed
	}
}

func (q *channelQueue[T]) Receive() (T, bool) {
	v, ok := <-q.ch
	return v, ok
}

func (q *channelQueue[T]) Close() {
	q.once.Do(func() {
		close(q.quit)

		q.mu.Lock()
		defer q.mu.Unlock()
		q.closed = true
		close(q.ch)
	})
}

func (q *channelQueue[T]) Len() int {
	return len(q.ch)
}
