package scheduler

import (
	"sync/atomic"
	"time"
)

// maxPending caps the dirty counter so a flood of invalidations can't wrap it.
const maxPending = 1<<16 - 1

// Dirty is a saturating repaint counter owned by one control. Any state
// mutation calls Invalidate; the scheduler renders the control once per
// tick no matter how many invalidations accumulated.
type Dirty struct {
	count   atomic.Uint32
	render  func()
	advance func(elapsed time.Duration) bool
}

// NewDirty returns a counter that calls render when drained.
func NewDirty(render func()) *Dirty {
	return &Dirty{render: render}
}

// SetAdvance installs an animation callback. It runs at the start of every
// tick with the time since the previous tick and returns true when the
// control's visible state changed. Must be set before registration.
func (d *Dirty) SetAdvance(fn func(elapsed time.Duration) bool) {
	d.advance = fn
}

// Invalidate records one repaint request. Safe from any goroutine.
func (d *Dirty) Invalidate() {
	for {
		n := d.count.Load()
		if n >= maxPending {
			return
		}
		if d.count.CompareAndSwap(n, n+1) {
			return
		}
	}
}

// Pending returns the number of outstanding repaint requests.
func (d *Dirty) Pending() int {
	return int(d.count.Load())
}

// Validate discards outstanding requests.
func (d *Dirty) Validate() {
	d.count.Store(0)
}

// drain resets the counter and reports whether anything was pending.
func (d *Dirty) drain() bool {
	return d.count.Swap(0) > 0
}
