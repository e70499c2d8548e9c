// Package perf collects lightweight timing stats and counters for the
// compositor's hot paths. Collection is off unless CELLFRAME_PROFILE is set.
package perf

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/andyrewlee/cellframe/internal/logging"
)

const (
	sampleWindow      = 128
	defaultIntervalMs = 5000
)

type stat struct {
	count   int64
	total   time.Duration
	min     time.Duration
	max     time.Duration
	samples []time.Duration
	next    int
}

func (s *stat) add(d time.Duration) {
	s.count++
	s.total += d
	if s.count == 1 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	if len(s.samples) < sampleWindow {
		s.samples = append(s.samples, d)
		return
	}
	s.samples[s.next] = d
	s.next = (s.next + 1) % sampleWindow
}

func (s *stat) p95() time.Duration {
	if len(s.samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), s.samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := (len(sorted)*95 + 99) / 100
	if idx > 0 {
		idx--
	}
	return sorted[idx]
}

var (
	enabled     atomic.Bool
	logInterval atomic.Int64
	lastLog     atomic.Int64

	mu       sync.Mutex
	stats    = map[string]*stat{}
	counters = map[string]int64{}
)

func init() {
	enabled.Store(isEnabled())
	logInterval.Store(int64(defaultLogInterval()))
}

// Enabled reports whether profiling is enabled.
func Enabled() bool {
	return enabled.Load()
}

// Time returns a function that records elapsed time when invoked.
func Time(name string) func() {
	if !enabled.Load() {
		return func() {}
	}
	start := time.Now()
	return func() {
		Record(name, time.Since(start))
	}
}

// Record captures a duration sample for the given name.
func Record(name string, d time.Duration) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	s := stats[name]
	if s == nil {
		s = &stat{}
		stats[name] = s
	}
	s.add(d)
	mu.Unlock()
	maybeLog()
}

// Count increments a named counter by delta.
func Count(name string, delta int64) {
	if !enabled.Load() {
		return
	}
	mu.Lock()
	counters[name] += delta
	mu.Unlock()
	maybeLog()
}

// Flush logs and resets everything collected so far.
func Flush(reason string) {
	if !enabled.Load() {
		return
	}
	logSnapshot(reason)
}

func maybeLog() {
	interval := time.Duration(logInterval.Load())
	if interval <= 0 {
		return
	}
	now := time.Now().UnixNano()
	last := lastLog.Load()
	if now-last < int64(interval) {
		return
	}
	if !lastLog.CompareAndSwap(last, now) {
		return
	}
	logSnapshot("interval")
}

func logSnapshot(reason string) {
	statsOut, countersOut := Snapshot()
	if len(statsOut) == 0 && len(countersOut) == 0 {
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "perf(%s):", reason)
	for _, s := range statsOut {
		fmt.Fprintf(&b, " %s n=%d avg=%s p95=%s max=%s;", s.Name, s.Count, s.Avg, s.P95, s.Max)
	}
	for _, c := range countersOut {
		fmt.Fprintf(&b, " %s=%d;", c.Name, c.Value)
	}
	logging.Info("%s", b.String())
}

func isEnabled() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("CELLFRAME_PROFILE"))) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func defaultLogInterval() time.Duration {
	ms := defaultIntervalMs
	if raw := strings.TrimSpace(os.Getenv("CELLFRAME_PROFILE_INTERVAL_MS")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			ms = v
		}
	}
	return time.Duration(ms) * time.Millisecond
}
