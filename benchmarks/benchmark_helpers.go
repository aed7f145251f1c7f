package benchmarks

import (
	"bytes"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/utkarsh5026/webpool/internal/logger"
	"github.com/utkarsh5026/webpool/pool"
)

// strategyConfig defines a benchmark configuration for a queue strategy
type strategyConfig struct {
	name string
	opts []pool.Option
}

// getAllStrategies returns every queue strategy. Bounded queues get
// queueSize slots and block when full.
func getAllStrategies(queueSize int) []strategyConfig {
	return []strategyConfig{
		{
			name: "Unbounded",
			opts: []pool.Option{pool.WithQueueStrategy(pool.QueueUnbounded)},
		},
		{
			name: "Channel",
			opts: []pool.Option{
				pool.WithQueueStrategy(pool.QueueChannel),
				pool.WithQueueCapacity(queueSize),
			},
		},
		{
			name: "MPMC",
			opts: []pool.Option{
				pool.WithQueueStrategy(pool.QueueMPMC),
				pool.WithQueueCapacity(queueSize),
			},
		},
	}
}

// runStrategyBenchmark runs a benchmark function for all strategies
func runStrategyBenchmark(b *testing.B, strategies []strategyConfig, benchFunc func(b *testing.B, s strategyConfig)) {
	for _, strategy := range strategies {
		b.Run(strategy.name, func(b *testing.B) {
			benchFunc(b, strategy)
		})
	}
}

// newPool builds a pool with a silent logger and closes it when b ends.
func newPool(b *testing.B, workers int, s strategyConfig) *pool.Pool {
	b.Helper()
	opts := append([]pool.Option{pool.WithLogger(logger.New(&bytes.Buffer{}, logger.LevelError))}, s.opts...)
	p, err := pool.New(workers, opts...)
	if err != nil {
		b.Fatalf("pool.New: %v", err)
	}
	b.Cleanup(func() { _ = p.Shutdown(10 * time.Second) })
	return p
}

// =============================================================================
// Benchmark Workload Generators
// =============================================================================

var sink int

// cpuBoundWork simulates a CPU-intensive job
func cpuBoundWork(iterations int) func() {
	return func() {
		result := 0
		for i := range iterations {
			result += i * i
		}
		sink = result
	}
}

// ioBoundWork simulates a job waiting on the network or disk
func ioBoundWork(delay time.Duration) func() {
	return func() {
		time.Sleep(delay)
	}
}

func percentile(latencies []time.Duration, p float64) time.Duration {
	if len(latencies) == 0 {
		return 0
	}

	sorted := slices.Clone(latencies)
	slices.Sort(sorted)

	index := max(int(math.Round(p*float64(len(sorted)-1))), 0)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
