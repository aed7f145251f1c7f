package scheduler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrQueueClosed     = errors.New("queue is closed")
	ErrQueueFull       = errors.New("queue is full")
	ErrInvalidCapacity = errors.New("bounded queue needs a capacity of at least 1")
	ErrUnknownStrategy = errors.New("unknown queue strategy")
	ErrUnknownPolicy   = errors.New("unknown backpressure policy")
)

// Queue is a FIFO multi-producer multi-consumer transport with an explicit
// close signal. Every value accepted by Send is returned by exactly one call
// to Receive, including values still pending when Close is called.
type Queue[T any] interface {
	// Send enqueues v. It fails with ErrQueueClosed once Close has been
	// called, and with ErrQueueFull when a bounded queue rejects on overflow.
	Send(v T) error

	// Receive blocks until a value is available or the queue is closed and
	// empty, in which case ok is false.
	Receive() (v T, ok bool)

	// Close stops further sends. It waits for in-flight Send calls to
	// settle and is safe to call more than once.
	Close()

	// Len returns the approximate number of pending values.
	Len() int
}

// Strategy selects the Queue implementation.
type Strategy int

const (
	// StrategyUnbounded is a lock-based growable ring. Send never blocks.
	StrategyUnbounded Strategy = iota
	// StrategyChannel is a buffered Go channel of fixed capacity.
	StrategyChannel
	// StrategyMPMC is a lock-free sequence-numbered ring of fixed capacity.
	StrategyMPMC
)

func (s Strategy) String() string {
	switch s {
	case StrategyUnbounded:
		return "unbounded"
	case StrategyChannel:
		return "channel"
	case StrategyMPMC:
		return "mpmc"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// Bounded reports whether the strategy has a fixed capacity.
func (s Strategy) Bounded() bool {
	return s == StrategyChannel || s == StrategyMPMC
}

// ParseStrategy converts a configuration name into a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "unbounded":
		return StrategyUnbounded, nil
	case "channel", "chan":
		return StrategyChannel, nil
	case "mpmc":
		return StrategyMPMC, nil
	default:
		return StrategyUnbounded, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Policy decides what Send does when a bounded queue is full.
type Policy int

const (
	// PolicyBlock makes Send wait for space or for Close.
	PolicyBlock Policy = iota
	// PolicyReject makes Send fail fast with ErrQueueFull.
	PolicyReject
)

func (p Policy) String() string {
	switch p {
	case PolicyBlock:
		return "block"
	case PolicyReject:
		return "reject"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts a configuration name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "block":
		return PolicyBlock, nil
	case "reject":
		return PolicyReject, nil
	default:
		return PolicyBlock, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}

// Config describes the queue to build.
type Config struct {
	Strategy Strategy
	// Capacity is required for bounded strategies and ignored otherwise.
	Capacity int
	Policy   Policy
}

// New builds the queue described by cfg.
func New[T any](cfg Config) (Queue[T], error) {
	if cfg.Strategy.Bounded() && cfg.Capacity < 1 {
		return nil, fmt.Errorf("%w: %s queue with capacity %d", ErrInvalidCapacity, cfg.Strategy, cfg.Capacity)
	}

	switch cfg.Strategy {
	case StrategyUnbounded:
		return newUnboundedQueue[T](defaultInitialCapacity), nil
	case StrategyChannel:
		return newChannelQueue[T](cfg.Capacity, cfg.Policy), nil
	case StrategyMPMC:
		return newMPMCQueue[T](cfg.Capacity, cfg.Policy), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(cfg.Strategy))
	}
}
