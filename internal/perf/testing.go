package perf

import (
	"sort"
	"time"
)

// StatSnapshot captures perf duration stats for diagnostics/tests.
type StatSnapshot struct {
	Name  string
	Count int64
	Avg   time.Duration
	Min   time.Duration
	Max   time.Duration
	P95   time.Duration
}

// CounterSnapshot captures perf counters for diagnostics/tests.
type CounterSnapshot struct {
	Name  string
	Value int64
}

// EnableForTest forces collection on with periodic logging disabled.
// It returns a function restoring the prior settings.
func EnableForTest() func() {
	prevEnabled := enabled.Load()
	prevInterval := logInterval.Load()
	enabled.Store(true)
	logInterval.Store(0)
	_, _ = Snapshot()
	return func() {
		enabled.Store(prevEnabled)
		logInterval.Store(prevInterval)
	}
}

// Snapshot returns current stats and counters sorted by name and resets them.
func Snapshot() ([]StatSnapshot, []CounterSnapshot) {
	mu.Lock()
	oldStats, oldCounters := stats, counters
	stats = map[string]*stat{}
	counters = map[string]int64{}
	mu.Unlock()

	statsOut := make([]StatSnapshot, 0, len(oldStats))
	for name, s := range oldStats {
		var avg time.Duration
		if s.count > 0 {
			avg = s.total / time.Duration(s.count)
		}
		statsOut = append(statsOut, StatSnapshot{
			Name:  name,
			Count: s.count,
			Avg:   avg,
			Min:   s.min,
			Max:   s.max,
			P95:   s.p95(),
		})
	}
	sort.Slice(statsOut, func(i, j int) bool { return statsOut[i].Name < statsOut[j].Name })

	counterOut := make([]CounterSnapshot, 0, len(oldCounters))
	for name, v := range oldCounters {
		counterOut = append(counterOut, CounterSnapshot{Name: name, Value: v})
	}
	sort.Slice(counterOut, func(i, j int) bool { return counterOut[i].Name < counterOut[j].Name })
	return statsOut, counterOut
}
