package scheduler

import "testing"

func TestUnboundedQueue_GrowPreservesOrder(t *testing.T) {
	q := newUnboundedQueue[int](4)

	// Wrap the ring before it grows so the unwrap path is exercised.
	for i := range 3 {
		_ = q.Send(i)
	}
	for range 2 {
		q.Receive()
	}
	for i := 3; i < 20; i++ {
		_ = q.Send(i)
	}

	if len(q.buf) < 18 {
		t.Fatalf("expected ring to grow, cap = %d", len(q.buf))
	}

	for want := 2; want < 20; want++ {
		v, ok := q.Receive()
		if !ok || v != want {
			t.Fatalf("expected (%d, true), got (%d, %v)", want, v, ok)
		}
	}
	if q.Len() != 0 {
		t.Errorf("expected empty queue, Len = %d", q.Len())
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	tests := map[int]int{-3: 1, 0: 1, 1: 1, 2: 2, 3: 4, 5: 8, 64: 64, 65: 128}
	for in, want := range tests {
		if got := nextPowerOfTwo(in); got != want {
			t.Errorf("nextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}
