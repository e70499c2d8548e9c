// Package surface composes cell-producing controls into one coordinate
// space. Each parent reaches a child through a Context that owns the
// child's offset and size limits, so every layer reasons only in its own
// local coordinates.
//
// Surfaces never lock. Every Resize, CellAt, OnInput and render must run
// while holding the scheduler's render lock.
package surface

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/cellframe/internal/cell"
)

// MaxDepth bounds how deep a composition tree may nest.
const MaxDepth = 64

// Surface is anything that can be placed in a parent and read cell by cell.
// Implementations must be pointer types so identity comparison works.
type Surface interface {
	// Resize lays the surface out within limits and returns the size taken.
	// It recomputes from scratch and is idempotent.
	Resize(limits Limits) Size
	// Size returns the size chosen by the last Resize.
	Size() Size
	// CellAt returns the cell at a local position, or the empty cell when
	// p is outside the surface.
	CellAt(p Position) cell.Cell
	// HandlesInput reports whether OnInput should be offered events.
	HandlesInput() bool
	// OnInput handles one event and reports whether it was consumed.
	OnInput(msg tea.Msg) bool
}

// Disposer is implemented by surfaces holding resources beyond their own
// memory, such as scheduler registrations. Dispose runs when a parent drops
// the surface.
type Disposer interface {
	Dispose()
}

// SizeNotifier is implemented by surfaces whose preferred size can change
// outside a Resize call. fn asks the parent to lay the surface out again.
type SizeNotifier interface {
	SetSizeChanged(fn func())
}

// Container is implemented by surfaces with children.
type Container interface {
	Children() []Surface
}

// Animator is implemented by producers with time-based state. Advance
// reports whether the visible output changed.
type Animator interface {
	Advance(elapsed time.Duration) bool
}

// Walk visits root and its descendants depth first, parents before
// children. It panics with a *CycleError if the tree is deeper than
// MaxDepth, which only happens when the tree has a cycle.
func Walk(root Surface, fn func(s Surface, depth int)) {
	walk(root, 0, fn)
}

func walk(s Surface, depth int, fn func(Surface, int)) {
	if s == nil {
		return
	}
	if depth > MaxDepth {
		panic(&CycleError{Depth: depth})
	}
	fn(s, depth)
	if c, ok := s.(Container); ok {
		for _, child := range c.Children() {
			walk(child, depth+1, fn)
		}
	}
}

// Count returns the number of surfaces in the tree rooted at root.
func Count(root Surface) int {
	n := 0
	Walk(root, func(Surface, int) { n++ })
	return n
}

// reaches reports whether target is from or one of its descendants.
func reaches(from, target Surface, depth int) (bool, error) {
	if from == nil {
		return false, nil
	}
	if from == target {
		return true, nil
	}
	if depth > MaxDepth {
		return false, &CycleError{Depth: depth}
	}
	c, ok := from.(Container)
	if !ok {
		return false, nil
	}
	for _, child := range c.Children() {
		found, err := reaches(child, target, depth+1)
		if err != nil || found {
			return found, err
		}
	}
	return false, nil
}
