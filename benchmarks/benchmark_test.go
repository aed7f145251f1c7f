package benchmarks

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
	"time"
)

// BenchmarkSubmit_Empty measures pure dispatch cost with no-op jobs.
func BenchmarkSubmit_Empty(b *testing.B) {
	runStrategyBenchmark(b, getAllStrategies(1024), func(b *testing.B, s strategyConfig) {
		p := newPool(b, runtime.NumCPU(), s)

		var wg sync.WaitGroup
		b.ReportAllocs()
		b.ResetTimer()

		for range b.N {
			wg.Add(1)
			if err := p.Submit(wg.Done); err != nil {
				b.Fatal(err)
			}
		}
		wg.Wait()
	})
}

// BenchmarkSubmit_CPUBound compares strategies on short CPU-bound jobs.
func BenchmarkSubmit_CPUBound(b *testing.B) {
	work := cpuBoundWork(1000)

	for _, workers := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			runStrategyBenchmark(b, getAllStrategies(4096), func(b *testing.B, s strategyConfig) {
				p := newPool(b, workers, s)

				var wg sync.WaitGroup
				b.ResetTimer()

				for range b.N {
					wg.Add(1)
					_ = p.Submit(func() {
						defer wg.Done()
						work()
					})
				}
				wg.Wait()
			})
		})
	}
}

// BenchmarkSubmit_Contended has many goroutines submitting at once, the
// pattern of an accept loop fed by a busy listener.
func BenchmarkSubmit_Contended(b *testing.B) {
	runStrategyBenchmark(b, getAllStrategies(1024), func(b *testing.B, s strategyConfig) {
		p := newPool(b, 4, s)
		work := cpuBoundWork(100)

		var wg sync.WaitGroup
		b.SetParallelism(4)
		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				wg.Add(1)
				_ = p.Submit(func() {
					defer wg.Done()
					work()
				})
			}
		})
		wg.Wait()
	})
}

// BenchmarkLatency_IOBound reports queueing latency percentiles for jobs
// that sleep, roughly how connections wait behind slow clients.
func BenchmarkLatency_IOBound(b *testing.B) {
	runStrategyBenchmark(b, getAllStrategies(1024), func(b *testing.B, s strategyConfig) {
		p := newPool(b, 16, s)
		work := ioBoundWork(200 * time.Microsecond)

		var (
			mu        sync.Mutex
			wg        sync.WaitGroup
			latencies = make([]time.Duration, 0, b.N)
		)
		b.ResetTimer()

		for range b.N {
			wg.Add(1)
			queued := time.Now()
			_ = p.Submit(func() {
				defer wg.Done()
				wait := time.Since(queued)
				work()

				mu.Lock()
				latencies = append(latencies, wait)
				mu.Unlock()
			})
		}
		wg.Wait()
		b.StopTimer()

		b.ReportMetric(float64(percentile(latencies, 0.50).Microseconds()), "p50-wait-µs")
		b.ReportMetric(float64(percentile(latencies, 0.99).Microseconds()), "p99-wait-µs")
	})
}

// BenchmarkFuture measures the round trip of SubmitFuture and Wait.
func BenchmarkFuture(b *testing.B) {
	runStrategyBenchmark(b, getAllStrategies(256), func(b *testing.B, s strategyConfig) {
		p := newPool(b, 2, s)
		b.ReportAllocs()
		b.ResetTimer()

		for range b.N {
			f, err := p.SubmitFuture(func() {})
			if err != nil {
				b.Fatal(err)
			}
			<-f.Done()
		}
	})
}

func TestPercentile(t *testing.T) {
	lat := []time.Duration{5, 1, 4, 2, 3}

	tests := []struct {
		p    float64
		want time.Duration
	}{
		{0, 1},
		{0.5, 3},
		{1, 5},
	}
	for _, tt := range tests {
		if got := percentile(lat, tt.p); got != tt.want {
			t.Errorf("percentile(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if percentile(nil, 0.5) != 0 {
		t.Error("empty input should yield 0")
	}
}
