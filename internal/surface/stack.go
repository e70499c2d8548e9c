package surface

import (
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/cellframe/internal/arena"
	"github.com/andyrewlee/cellframe/internal/cell"
)

// Stack lays children out top to bottom in insertion order. Each child
// gets the full width and whatever height is left.
type Stack struct {
	owner

	items  arena.Arena[*Context]
	limits Limits
	size   Size
	onSize func()
}

// NewStack returns an empty stack.
func NewStack() *Stack {
	return &Stack{}
}

// Add appends child and returns a handle for removing it later.
func (s *Stack) Add(child Surface) (arena.Handle, error) {
	ctx, err := Bind(s, child)
	if err != nil {
		return arena.Handle{}, err
	}
	ctx.Watch(s.childSizeChanged)
	h := s.items.Add(ctx)
	s.relayout()
	return h, nil
}

// Remove disposes and drops the child behind h.
func (s *Stack) Remove(h arena.Handle) bool {
	ctx, ok := s.items.Get(h)
	if !ok {
		return false
	}
	s.items.Remove(h)
	ctx.Release()
	s.relayout()
	return true
}

// Len returns the number of children.
func (s *Stack) Len() int { return s.items.Len() }

// SetSizeChanged implements SizeNotifier.
func (s *Stack) SetSizeChanged(fn func()) { s.onSize = fn }

func (s *Stack) childSizeChanged() { s.relayout() }

func (s *Stack) relayout() {
	prev := s.size
	s.Resize(s.limits)
	if s.size != prev && s.onSize != nil {
		s.onSize()
	}
}

func (s *Stack) Resize(limits Limits) Size {
	s.limits = limits.Normalize()
	y, width := 0, 0
	s.items.Each(func(_ arena.Handle, ctx *Context) {
		remaining := Unbounded
		if s.limits.Max.Height < Unbounded {
			remaining = max(0, s.limits.Max.Height-y)
		}
		ctx.SetLimits(Limits{
			Min: Size{Width: s.limits.Min.Width},
			Max: Size{Width: s.limits.Max.Width, Height: remaining},
		})
		ctx.SetOffset(0, y)
		cs := ctx.Resize()
		y += cs.Height
		width = max(width, cs.Width)
	})
	s.size = s.limits.Clamp(Size{Width: width, Height: y})
	return s.size
}

func (s *Stack) Size() Size { return s.size }

func (s *Stack) CellAt(p Position) cell.Cell {
	if !s.size.Contains(p) {
		return cell.Empty()
	}
	out := cell.Empty()
	found := false
	s.items.Each(func(_ arena.Handle, ctx *Context) {
		if !found && ctx.Contains(p) {
			out = ctx.CellAt(p)
			found = true
		}
	})
	return out
}

func (s *Stack) HandlesInput() bool {
	for _, ctx := range s.items.Values() {
		if ctx.Child().HandlesInput() {
			return true
		}
	}
	return false
}

// OnInput offers msg to each input-handling child in order until one
// consumes it.
func (s *Stack) OnInput(msg tea.Msg) bool {
	for _, ctx := range s.items.Values() {
		if c := ctx.Child(); c.HandlesInput() && c.OnInput(msg) {
			return true
		}
	}
	return false
}

func (s *Stack) Children() []Surface {
	ctxs := s.items.Values()
	out := make([]Surface, 0, len(ctxs))
	for _, ctx := range ctxs {
		out = append(out, ctx.Child())
	}
	return out
}

func (s *Stack) Dispose() {
	var handles []arena.Handle
	s.items.Each(func(h arena.Handle, ctx *Context) {
		ctx.Release()
		handles = append(handles, h)
	})
	for _, h := range handles {
		s.items.Remove(h)
	}
}
