// Package arena stores values in a dense slice addressed by
// generation-checked handles. Removing an entry frees its slot for reuse;
// a handle to a removed entry never resolves again, even after the slot
// is recycled.
package arena

import "sort"

// Handle addresses one entry. The zero Handle is never valid.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.gen == 0
}

type slot[T any] struct {
	value T
	gen   uint32 // odd while occupied
	order uint64 // insertion sequence, for deterministic iteration
}

// Arena holds values of type T. It is not safe for concurrent use.
type Arena[T any] struct {
	slots []slot[T]
	free  []uint32
	seq   uint64
	live  int
}

// Add stores v and returns its handle.
func (a *Arena[T]) Add(v T) Handle {
	a.seq++
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.slots = append(a.slots, slot[T]{})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.gen++
	s.value = v
	s.order = a.seq
	a.live++
	return Handle{index: idx, gen: s.gen}
}

func (a *Arena[T]) lookup(h Handle) *slot[T] {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil
	}
	s := &a.slots[h.index]
	if s.gen != h.gen || s.gen%2 == 0 {
		return nil
	}
	return s
}

// Get returns the value for h and whether h is still live.
func (a *Arena[T]) Get(h Handle) (T, bool) {
	s := a.lookup(h)
	if s == nil {
		var zero T
		return zero, false
	}
	return s.value, true
}

// Remove deletes the entry for h. It reports whether anything was removed.
func (a *Arena[T]) Remove(h Handle) bool {
	s := a.lookup(h)
	if s == nil {
		return false
	}
	var zero T
	s.value = zero
	s.gen++
	a.free = append(a.free, h.index)
	a.live--
	return true
}

// Len returns the number of live entries.
func (a *Arena[T]) Len() int {
	return a.live
}

// Each calls fn for every live entry in insertion order. fn must not add
// or remove entries; collect handles and act after Each returns.
func (a *Arena[T]) Each(fn func(h Handle, v T)) {
	idx := make([]uint32, 0, a.live)
	for i := range a.slots {
		if a.slots[i].gen%2 == 1 {
			idx = append(idx, uint32(i))
		}
	}
	sort.Slice(idx, func(i, j int) bool {
		return a.slots[idx[i]].order < a.slots[idx[j]].order
	})
	for _, i := range idx {
		s := &a.slots[i]
		fn(Handle{index: i, gen: s.gen}, s.value)
	}
}

// Values returns the live values in insertion order.
func (a *Arena[T]) Values() []T {
	out := make([]T, 0, a.live)
	a.Each(func(_ Handle, v T) { out = append(out, v) })
	return out
}
