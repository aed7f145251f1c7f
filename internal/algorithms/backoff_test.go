package algorithms

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestExponentialBackoff_NextDelay(t *testing.T) {
	eb := newExponentialBackoff(5*time.Millisecond, time.Second)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{-1, 0},
		{0, 5 * time.Millisecond},
		{1, 10 * time.Millisecond},
		{2, 20 * time.Millisecond},
		{5, 160 * time.Millisecond},
		{7, 640 * time.Millisecond},
		{8, time.Second},
		{62, time.Second},
		{100, time.Second},
	}

	for _, tt := range tests {
		if got := eb.NextDelay(tt.attempt); got != tt.want {
			t.Errorf("NextDelay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestJitteredBackoff_Bounds(t *testing.T) {
	jb := newJitteredBackoff(100*time.Millisecond, 10*time.Second, 0.1)

	for attempt := 0; attempt < 5; attempt++ {
		base := calcExponentialDelay(attempt, 100*time.Millisecond, 10*time.Second)
		lo := time.Duration(float64(base) * 0.9)
		hi := time.Duration(float64(base) * 1.1)

		for i := 0; i < 100; i++ {
			d := jb.NextDelay(attempt)
			if d < lo || d > hi {
				t.Fatalf("attempt %d: delay %v outside [%v, %v]", attempt, d, lo, hi)
			}
		}
	}
}

func TestJitteredBackoff_CapsAtMax(t *testing.T) {
	jb := newJitteredBackoff(time.Second, 2*time.Second, 1.0)

	for i := 0; i < 100; i++ {
		if d := jb.NextDelay(10); d > 2*time.Second || d < 0 {
			t.Fatalf("delay %v escaped [0, 2s]", d)
		}
	}
}

func TestJitteredBackoff_ClampsFactor(t *testing.T) {
	if jb := newJitteredBackoff(time.Millisecond, time.Second, 5); jb.jitterFactor != 1 {
		t.Errorf("expected factor clamped to 1, got %v", jb.jitterFactor)
	}
	if jb := newJitteredBackoff(time.Millisecond, time.Second, -1); jb.jitterFactor != 0 {
		t.Errorf("expected factor clamped to 0, got %v", jb.jitterFactor)
	}
}

func TestJitteredBackoff_Concurrent(t *testing.T) {
	jb := newJitteredBackoff(time.Millisecond, time.Second, 0.3)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				jb.NextDelay(i % 10)
			}
		}()
	}
	wg.Wait()
}

func TestNewBackoffStrategy(t *testing.T) {
	tests := []struct {
		name string
		typ  BackoffType
	}{
		{"exponential", BackoffExponential},
		{"jittered", BackoffJittered},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewBackoffStrategy(tt.typ, 10*time.Millisecond, time.Second, 0.2)
			if tt.typ.String() != tt.name {
				t.Errorf("String() = %q, want %q", tt.typ.String(), tt.name)
			}

			switch tt.typ {
			case BackoffJittered:
				if _, ok := s.(*jitteredBackoff); !ok {
					t.Errorf("expected *jitteredBackoff, got %T", s)
				}
			default:
				if _, ok := s.(*exponentialBackoff); !ok {
					t.Errorf("expected *exponentialBackoff, got %T", s)
				}
			}
		})
	}
}

func TestParseBackoff(t *testing.T) {
	tests := []struct {
		in      string
		want    BackoffType
		wantErr bool
	}{
		{"", BackoffExponential, false},
		{"exponential", BackoffExponential, false},
		{" Jittered ", BackoffJittered, false},
		{"jitter", BackoffJittered, false},
		{"decorrelated", BackoffExponential, true},
	}

	for _, tt := range tests {
		got, err := ParseBackoff(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBackoff(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrUnknownBackoff) {
			t.Errorf("ParseBackoff(%q) error should wrap ErrUnknownBackoff, got %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseBackoff(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
