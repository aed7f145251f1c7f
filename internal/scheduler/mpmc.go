package scheduler

import (
	"runtime"
	"sync"
	"sync/atomic"
)

const (
	// Cache line size for padding to prevent false sharing
	cacheLinePadding = 128
	// Maximum spin attempts before parking on a notification channel
	maxSpinAttempts = 10
)

// mpmcQueueSlot represents a single slot in the ring buffer
type mpmcQueueSlot[T any] struct {
	// Sequence number for synchronization
	sequence uint64
	// The actual data
	value T
	// Padding to prevent false sharing between slots
	_ [cacheLinePadding - 16]byte
}

// mpmcQueue is a bounded lock-free multi-producer multi-consumer ring.
//
// Slot i is free for the producer at position p when its sequence equals p,
// and holds a value for the consumer at position c when its sequence equals
// c+1. Consumers release a slot by advancing its sequence by the capacity.
//
// The read lock taken by Send only ever contends with Close, which uses it
// to wait for in-flight sends before marking the queue closed.
type mpmcQueue[T any] struct {
	ring []mpmcQueueSlot[T]
	// Capacity mask (capacity - 1) for fast modulo
	mask uint64

	// Head and tail positions with padding to prevent false sharing
	_    [cacheLinePadding]byte
	head uint64
	_    [cacheLinePadding - 8]byte
	tail uint64
	_    [cacheLinePadding - 8]byte

	closed atomic.Bool
	mu     sync.RWMutex
	once   sync.Once

	// Wake-ups for parked consumers and producers. Buffered, never closed.
	notifyC chan struct{}
	spaceC  chan struct{}

	// Closed on shutdown. quit releases blocked producers, closeC parked consumers.
	quit   chan struct{}
	closeC chan struct{}

	policy   Policy
	capacity int
}

// newMPMCQueue creates a ring with capacity rounded up to a power of two.
func newMPMCQueue[T any](capacity int, policy Policy) *mpmcQueue[T] {
	capacity = nextPowerOfTwo(capacity)
	ring := make([]mpmcQueueSlot[T], capacity)

	for i := range ring {
		ring[i].sequence = uint64(i) // #nosec G115 -- i is loop index within valid ring bounds
	}

	return &mpmcQueue[T]{
		ring:     ring,
		mask:     uint64(capacity - 1), // #nosec G115 -- capacity is validated positive, no overflow possible
		policy:   policy,
		capacity: capacity,
		notifyC:  make(chan struct{}, 1),
		spaceC:   make(chan struct{}, 1),
		quit:     make(chan struct{}),
		closeC:   make(chan struct{}),
	}
}

// Send adds a value to the ring. When the ring is full it either fails with
// ErrQueueFull or waits for a consumer to free a slot, depending on policy.
func (q *mpmcQueue[T]) Send(value T) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed.Load() {
		return ErrQueueClosed
	}

	spinCount := 0
	for {
		tail, slot, diff := q.loadTail()
		switch {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&q.tail, tail, tail+1) {
				slot.value = value
				atomic.StoreUint64(&slot.sequence, tail+1)
				wake(q.notifyC)
				if q.Len() < q.capacity {
					wake(q.spaceC)
				}
				return nil
			}
			continue

		case diff > 0:
			// another producer claimed this position first
			continue
		}

		if q.policy == PolicyReject {
			return ErrQueueFull
		}

		spinCount++
		if spinCount < maxSpinAttempts {
			runtime.Gosched()
			continue
		}
		spinCount = 0

		select {
		case <-q.quit:
			return ErrQueueClosed
		case <-q.spaceC:
		}
	}
}

// Receive removes the oldest value, parking when the ring is empty.
func (q *mpmcQueue[T]) Receive() (T, bool) {
	var zero T
	spinCount := 0

	for {
		if v, ok := q.tryDequeue(); ok {
			wake(q.spaceC)
			if q.Len() > 0 {
				wake(q.notifyC)
			}
			return v, true
		}

		if q.closedAndEmpty() {
			return zero, false
		}

		spinCount++
		if spinCount < maxSpinAttempts {
			runtime.Gosched()
			continue
		}
		spinCount = 0

		select {
		case <-q.closeC:
			// drain whatever is left before reporting closure
			runtime.Gosched()
		case <-q.notifyC:
		}
	}
}

// tryDequeue attempts to take the value at head without blocking.
func (q *mpmcQueue[T]) tryDequeue() (T, bool) {
	var zero T
	for {
		head := atomic.LoadUint64(&q.head)
		slot := &q.ring[head&q.mask]
		seq := atomic.LoadUint64(&slot.sequence)
		diff := int64(seq) - int64(head+1) // #nosec G115 -- intentional conversion for sequence comparison

		switch {
		case diff == 0:
			if atomic.CompareAndSwapUint64(&q.head, head, head+1) {
				value := slot.value
				slot.value = zero
				// Release the slot to producers
				// if head is N, next sequence should be N + capacity
				atomic.StoreUint64(&slot.sequence, head+q.mask+1)
				return value, true
			}
		case diff < 0:
			return zero, false
		}
	}
}

// loadTail loads the tail position and its slot, along with the difference
// between the slot sequence and the expected sequence.
func (q *mpmcQueue[T]) loadTail() (tail uint64, slot *mpmcQueueSlot[T], diff int64) {
	tail = atomic.LoadUint64(&q.tail)
	slot = &q.ring[tail&q.mask]
	seq := atomic.LoadUint64(&slot.sequence)
	diff = int64(seq) - int64(tail) // #nosec G115 -- intentional conversion for sequence comparison
	return
}

func (q *mpmcQueue[T]) closedAndEmpty() bool {
	if !q.closed.Load() {
		return false
	}
	return atomic.LoadUint64(&q.head) >= atomic.LoadUint64(&q.tail)
}

// Len returns the approximate number of items in the queue
// This is an approximation due to concurrent operations
func (q *mpmcQueue[T]) Len() int {
	head := atomic.LoadUint64(&q.head)
	tail := atomic.LoadUint64(&q.tail)

	if tail > head {
		return int(tail - head) // #nosec G115 -- safe conversion, tail > head guarantees result fits in int
	}
	return 0
}

// Cap returns the capacity of the ring after rounding.
func (q *mpmcQueue[T]) Cap() int {
	return q.capacity
}

func (q *mpmcQueue[T]) Close() {
	q.once.Do(func() {
		close(q.quit)

		q.mu.Lock()
		defer q.mu.Unlock()
		q.closed.Store(true)
		close(q.closeC)
	})
}

// wake performs a non-blocking send on a wake-up channel.
func wake(c chan struct{}) {
	select {
	case c <- struct{}{}:
	default:
	}
}
