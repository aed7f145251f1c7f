package algorithms

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	maxAttempts = 63 // Prevent overflow in backoff calculation
)

// BackoffType selects the delay algorithm used between retries of a
// temporarily failing operation.
type BackoffType int

const (
	// BackoffExponential doubles the delay on each attempt (default).
	BackoffExponential BackoffType = iota
	// BackoffJittered randomizes the exponential delay by a factor.
	BackoffJittered
)

func (t BackoffType) String() string {
	switch t {
	case BackoffJittered:
		return "jittered"
	default:
		return "exponential"
	}
}

// ErrUnknownBackoff is returned by ParseBackoff for an unrecognised name.
var ErrUnknownBackoff = errors.New("unknown backoff type")

// ParseBackoff converts "exponential" or "jittered" into a BackoffType.
// An empty name selects BackoffExponential.
func ParseBackoff(name string) (BackoffType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "exponential":
		return BackoffExponential, nil
	case "jittered", "jitter":
		return BackoffJittered, nil
	default:
		return BackoffExponential, fmt.Errorf("%w: %q", ErrUnknownBackoff, name)
	}
}

// BackoffStrategy computes the pause before the next attempt.
// Implementations are stateless and safe for concurrent use.
type BackoffStrategy interface {
	// NextDelay returns the delay before attempt attemptNumber (0-indexed).
	NextDelay(attemptNumber int) time.Duration
}

// NewBackoffStrategy builds the strategy for backoffType. jitterFactor is
// ignored by the exponential strategy.
func NewBackoffStrategy(
	backoffType BackoffType,
	initialDelay, maxDelay time.Duration,
	jitterFactor float64,
) BackoffStrategy {
	switch backoffType {
	case BackoffJittered:
		return newJitteredBackoff(initialDelay, maxDelay, jitterFactor)
	default:
		return newExponentialBackoff(initialDelay, maxDelay)
	}
}

// jitteredBackoff spreads exponential delays by ±jitterFactor so that
// several loops failing together do not retry in lockstep.
//
// Example with jitterFactor=0.1:
// Base delay of 1s becomes random value between 900ms and 1100ms
type jitteredBackoff struct {
	initialDelay, maxDelay time.Duration
	jitterFactor           float64
	rng                    *rand.Rand
	mu                     sync.Mutex // guards rng
}

func newJitteredBackoff(initialDelay, maxDelay time.Duration, jitterFactor float64) *jitteredBackoff {
	return &jitteredBackoff{
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
		jitterFactor: clamp(jitterFactor, 0, 1),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())), // #nosec G404 -- crypto rand not needed for backoff jitter
	}
}

func (jb *jitteredBackoff) NextDelay(attemptNumber int) time.Duration {
	if attemptNumber < 0 {
		return 0
	}

	baseDelay := calcExponentialDelay(attemptNumber, jb.initialDelay, jb.maxDelay)

	jb.mu.Lock()
	jitterMultiplier := 1.0 + (jb.rng.Float64()*2-1)*jb.jitterFactor
	jb.mu.Unlock()

	actualDelay := time.Duration(float64(baseDelay) * jitterMultiplier)
	return clamp(actualDelay, 0, jb.maxDelay)
}

// exponentialBackoff yields initialDelay * 2^attemptNumber, capped at maxDelay.
type exponentialBackoff struct {
	initialDelay time.Duration
	maxDelay     time.Duration
}

func newExponentialBackoff(initialDelay, maxDelay time.Duration) *exponentialBackoff {
	return &exponentialBackoff{
		initialDelay: initialDelay,
		maxDelay:     maxDelay,
	}
}

func (eb *exponentialBackoff) NextDelay(attemptNumber int) time.Duration {
	return calcExponentialDelay(attemptNumber, eb.initialDelay, eb.maxDelay)
}

func calcExponentialDelay(attemptNumber int, initialDelay, maxDelay time.Duration) time.Duration {
	if attemptNumber < 0 {
		return 0
	}

	if attemptNumber >= maxAttempts {
		return maxDelay
	}

	backoffFactor := int64(1) << uint(attemptNumber)
	delay := time.Duration(backoffFactor) * initialDelay

	if delay > maxDelay || delay < 0 {
		return maxDelay
	}

	return delay
}

func clamp[T int | int64 | float64 | time.Duration](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
