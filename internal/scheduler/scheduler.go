// Package scheduler drives repaints from a periodic tick under one coarse
// lock. Controls register Dirty counters; each tick that manages to take
// the lock advances animations and renders every dirty control once.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
	"weak"

	"github.com/andyrewlee/cellframe/internal/arena"
	"github.com/andyrewlee/cellframe/internal/logging"
	"github.com/andyrewlee/cellframe/internal/perf"
	"github.com/andyrewlee/cellframe/internal/safego"
)

// DefaultInterval is the tick period when none is configured.
const DefaultInterval = 100 * time.Millisecond

// Scheduler owns the lock that serializes all buffer mutation and reads.
type Scheduler struct {
	mu       sync.Mutex // the render lock
	interval time.Duration
	lastTick time.Time
	onFrame  func()

	regMu   sync.Mutex
	entries arena.Arena[weak.Pointer[Dirty]]

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}

	dropped atomic.Uint64
	renders atomic.Uint64
}

// New returns a stopped scheduler. Intervals <= 0 use DefaultInterval.
func New(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval}
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Do runs fn while holding the render lock. fn must not call Do or Flush.
func (s *Scheduler) Do(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
}

// SetOnFrame installs a hook that runs under the lock after any pass that
// rendered at least one control.
func (s *Scheduler) SetOnFrame(fn func()) {
	s.mu.Lock()
	s.onFrame = fn
	s.mu.Unlock()
}

// Registration ties a Dirty counter to a scheduler until Close.
type Registration struct {
	s    *Scheduler
	h    arena.Handle
	once sync.Once
}

// Register subscribes d to ticks. The scheduler only keeps a weak
// reference; a counter that becomes unreachable is pruned automatically.
// Register does not take the render lock and may be called inside Do.
func (s *Scheduler) Register(d *Dirty) *Registration {
	s.regMu.Lock()
	h := s.entries.Add(weak.Make(d))
	s.regMu.Unlock()
	return &Registration{s: s, h: h}
}

// Close deregisters the counter. It is safe to call more than once.
func (r *Registration) Close() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		r.s.regMu.Lock()
		r.s.entries.Remove(r.h)
		r.s.regMu.Unlock()
	})
}

// Registered returns the number of live registrations.
func (s *Scheduler) Registered() int {
	s.regMu.Lock()
	defer s.regMu.Unlock()
	return s.entries.Len()
}

// Tick runs one pass if the render lock is free. A pulse that finds the
// lock held is dropped, not queued, and Tick returns false.
func (s *Scheduler) Tick() bool {
	if !s.mu.TryLock() {
		s.dropped.Add(1)
		perf.Count("scheduler_dropped_ticks", 1)
		logging.Debug("scheduler: tick dropped, render in progress")
		return false
	}
	defer s.mu.Unlock()
	s.pass(time.Now())
	return true
}

// Flush waits for the lock and runs one pass. It returns the number of
// controls rendered.
func (s *Scheduler) Flush() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pass(time.Now())
}

func (s *Scheduler) pass(now time.Time) int {
	defer perf.Time("scheduler_pass")()

	var elapsed time.Duration
	if !s.lastTick.IsZero() {
		elapsed = now.Sub(s.lastTick)
	}
	s.lastTick = now

	live := s.collect()
	if elapsed > 0 {
		for _, d := range live {
			if d.advance == nil {
				continue
			}
			var changed bool
			if err := safego.Run("animation", func() { changed = d.advance(elapsed) }); err == nil && changed {
				d.Invalidate()
			}
		}
	}

	rendered := 0
	for _, d := range live {
		if !d.drain() {
			continue
		}
		rendered++
		if d.render != nil {
			_ = safego.Run("render", d.render)
		}
	}

	if rendered > 0 {
		s.renders.Add(uint64(rendered))
		perf.Count("scheduler_renders", int64(rendered))
		if s.onFrame != nil {
			_ = safego.Run("frame hook", s.onFrame)
		}
	}
	return rendered
}

// collect resolves live counters in registration order and prunes the
// ones that have been garbage collected.
func (s *Scheduler) collect() []*Dirty {
	s.regMu.Lock()
	defer s.regMu.Unlock()

	live := make([]*Dirty, 0, s.entries.Len())
	var dead []arena.Handle
	s.entries.Each(func(h arena.Handle, wp weak.Pointer[Dirty]) {
		if d := wp.Value(); d != nil {
			live = append(live, d)
		} else {
			dead = append(dead, h)
		}
	})
	for _, h := range dead {
		s.entries.Remove(h)
	}
	return live
}

// Start begins ticking in the background until ctx is done or Stop is
// called. Starting a running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	safego.Go("scheduler", func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	})
}

// Stop halts the tick goroutine and waits for it to exit. It is idempotent.
// Stop must not be called while holding the render lock.
func (s *Scheduler) Stop() {
	s.runMu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.runMu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Stats reports how many ticks were dropped and how many renders ran.
func (s *Scheduler) Stats() (dropped, renders uint64) {
	return s.dropped.Load(), s.renders.Load()
}
