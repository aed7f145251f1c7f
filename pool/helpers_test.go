package pool

import (
	"bytes"
	"testing"
	"time"

	"github.com/utkarsh5026/webpool/internal/logger"
)

// strategyConfig defines a test configuration for a queue strategy
type strategyConfig struct {
	name string
	opts []Option
}

// getAllStrategies returns every queue strategy with enough capacity that
// bounded queues never fill up during ordinary tests.
func getAllStrategies() []strategyConfig {
	return []strategyConfig{
		{
			name: "Unbounded",
			opts: []Option{WithQueueStrategy(QueueUnbounded)},
		},
		{
			name: "Channel",
			opts: []Option{WithQueueStrategy(QueueChannel), WithQueueCapacity(1024)},
		},
		{
			name: "MPMC",
			opts: []Option{WithQueueStrategy(QueueMPMC), WithQueueCapacity(1024)},
		},
	}
}

// runStrategyTest runs fn against a fresh pool of size workers for every
// strategy. The pool is closed when fn returns unless fn already did so.
func runStrategyTest(t *testing.T, size int, fn func(t *testing.T, p *Pool), extra ...Option) {
	t.Helper()
	for _, s := range getAllStrategies() {
		t.Run(s.name, func(t *testing.T) {
			opts := append([]Option{WithLogger(quietLogger())}, s.opts...)
			opts = append(opts, extra...)

			p, err := New(size, opts...)
			if err != nil {
				t.Fatalf("New(%d) failed: %v", size, err)
			}
			defer func() { _ = p.Shutdown(5 * time.Second) }()

			fn(t, p)
		})
	}
}

// quietLogger discards everything below ERROR.
func quietLogger() *logger.Logger {
	return logger.New(&bytes.Buffer{}, logger.LevelError)
}

// waitFor polls cond until it holds or the timeout expires.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("timed out waiting for condition")
		}
		time.Sleep(time.Millisecond)
	}
}
