package surface

import (
	"reflect"

	"github.com/andyrewlee/cellframe/internal/cell"
)

// Context is the edge between one parent and one child surface. It maps
// the parent's coordinates into the child's by subtracting an offset and
// carries the limits the child is laid out in.
type Context struct {
	parent Surface
	child  Surface
	offset Position
	limits Limits
	notify func()
}

// Bind creates the context for parent -> child. It fails with
// ErrNilSurface for a nil child, with a *CycleError when child already
// contains parent and with ErrAlreadyBound when child has another parent.
func Bind(parent, child Surface) (*Context, error) {
	if err := checkChild(parent, child, nil); err != nil {
		return nil, err
	}
	c := &Context{parent: parent, child: child}
	c.claim()
	return c, nil
}

func checkChild(parent, child Surface, self *Context) error {
	if isNil(child) {
		return ErrNilSurface
	}
	if parent != nil {
		found, err := reaches(child, parent, 0)
		if err != nil {
			return err
		}
		if found {
			return &CycleError{}
		}
	}
	if o := ownerOf(child); o != nil && o.ctx != nil && o.ctx != self {
		return ErrAlreadyBound
	}
	return nil
}

// isNil also catches a typed nil pointer stored in the interface.
func isNil(s Surface) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// owner records the context a surface is bound under. Surfaces in this
// package embed it; other implementations are not tracked.
type owner struct {
	ctx *Context
}

func (o *owner) ownerSlot() *owner { return o }

func ownerOf(s Surface) *owner {
	if o, ok := s.(interface{ ownerSlot() *owner }); ok {
		return o.ownerSlot()
	}
	return nil
}

func (c *Context) claim() {
	if o := ownerOf(c.child); o != nil {
		o.ctx = c
	}
}

func (c *Context) unclaim() {
	if o := ownerOf(c.child); o != nil && o.ctx == c {
		o.ctx = nil
	}
}

// Parent returns the owning surface.
func (c *Context) Parent() Surface { return c.parent }

// Child returns the bound surface.
func (c *Context) Child() Surface { return c.child }

// Watch routes the child's size-change requests to fn. The hook follows
// the context across Rebind.
func (c *Context) Watch(fn func()) {
	c.notify = fn
	if n, ok := c.child.(SizeNotifier); ok {
		n.SetSizeChanged(fn)
	}
}

// Rebind swaps in a new child. The old child is detached and disposed
// first. Offset and limits carry over; the caller re-runs layout.
func (c *Context) Rebind(child Surface) error {
	if err := checkChild(c.parent, child, c); err != nil {
		return err
	}
	if child == c.child {
		return nil
	}
	c.teardown()
	c.child = child
	c.claim()
	if c.notify != nil {
		if n, ok := child.(SizeNotifier); ok {
			n.SetSizeChanged(c.notify)
		}
	}
	return nil
}

// Release detaches and disposes the child. The context must not be used
// afterwards.
func (c *Context) Release() {
	c.teardown()
	c.child = nil
}

// detach drops the edge without disposing the child, which stays usable
// under another parent.
func (c *Context) detach() {
	if c.child == nil {
		return
	}
	if n, ok := c.child.(SizeNotifier); ok {
		n.SetSizeChanged(nil)
	}
	c.unclaim()
	c.child = nil
	c.notify = nil
}

func (c *Context) teardown() {
	if c.child == nil {
		return
	}
	if n, ok := c.child.(SizeNotifier); ok {
		n.SetSizeChanged(nil)
	}
	c.unclaim()
	if d, ok := c.child.(Disposer); ok {
		d.Dispose()
	}
}

// Offset returns the child's origin in parent coordinates.
func (c *Context) Offset() Position { return c.offset }

// SetOffset places the child's origin at (dx, dy) in parent coordinates.
func (c *Context) SetOffset(dx, dy int) {
	c.offset = Position{X: dx, Y: dy}
}

// Limits returns the size range the child is laid out in.
func (c *Context) Limits() Limits { return c.limits }

// SetLimits changes the child's size range. It takes effect on Resize.
func (c *Context) SetLimits(l Limits) {
	c.limits = l.Normalize()
}

// Resize lays the child out within the current limits.
func (c *Context) Resize() Size {
	if c.child == nil {
		return Size{}
	}
	return c.child.Resize(c.limits)
}

// Size returns the child's current size.
func (c *Context) Size() Size {
	if c.child == nil {
		return Size{}
	}
	return c.child.Size()
}

// Local converts a parent position into the child's coordinates.
func (c *Context) Local(abs Position) Position {
	return abs.Sub(c.offset)
}

// Bounds returns the child's rectangle in parent coordinates.
func (c *Context) Bounds() Rect {
	s := c.Size()
	return Rect{X: c.offset.X, Y: c.offset.Y, Width: s.Width, Height: s.Height}
}

// Contains reports whether abs falls on the child.
func (c *Context) Contains(abs Position) bool {
	if c.child == nil {
		return false
	}
	return c.child.Size().Contains(c.Local(abs))
}

// CellAt returns the child's cell under abs, or the empty cell when abs
// is outside the child.
func (c *Context) CellAt(abs Position) cell.Cell {
	if !c.Contains(abs) {
		return cell.Empty()
	}
	return c.child.CellAt(c.Local(abs))
}
