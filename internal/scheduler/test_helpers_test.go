package scheduler

import "testing"

// strategyConfig names a queue configuration exercised by the shared tests.
type strategyConfig struct {
	name string
	conf Config
}

// getAllStrategies returns one configuration per strategy, with enough
// capacity that the bounded ones never fill up in the shared tests.
func getAllStrategies(capacity int) []strategyConfig {
	return []strategyConfig{
		{name: "Unbounded", conf: Config{Strategy: StrategyUnbounded}},
		{name: "Channel", conf: Config{Strategy: StrategyChannel, Capacity: capacity}},
		{name: "MPMC", conf: Config{Strategy: StrategyMPMC, Capacity: capacity}},
	}
}

// runStrategyTest runs fn once per strategy as a subtest.
func runStrategyTest(t *testing.T, capacity int, fn func(t *testing.T, q Queue[int])) {
	t.Helper()
	for _, s := range getAllStrategies(capacity) {
		t.Run(s.name, func(t *testing.T) {
			q, err := New[int](s.conf)
			if err != nil {
				t.Fatalf("New(%+v) failed: %v", s.conf, err)
			}
			fn(t, q)
		})
	}
}
