package surface

import (
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/cellframe/internal/cell"
)

// Margin pads a child with empty cells.
type Margin struct {
	owner

	ctx    *Context
	insets Insets
	limits Limits
	size   Size
	onSize func()
}

// NewMargin wraps child with insets. Negative insets count as zero.
func NewMargin(child Surface, insets Insets) (*Margin, error) {
	m := &Margin{insets: insets.clamp()}
	ctx, err := Bind(m, child)
	if err != nil {
		return nil, err
	}
	m.ctx = ctx
	ctx.Watch(m.childSizeChanged)
	return m, nil
}

// Insets returns the padding.
func (m *Margin) Insets() Insets { return m.insets }

// Child returns the padded surface.
func (m *Margin) Child() Surface { return m.ctx.Child() }

// SetChild replaces the padded surface, disposing the old one.
func (m *Margin) SetChild(child Surface) error {
	if err := m.ctx.Rebind(child); err != nil {
		return err
	}
	m.Resize(m.limits)
	return nil
}

// SetSizeChanged implements SizeNotifier.
func (m *Margin) SetSizeChanged(fn func()) { m.onSize = fn }

func (m *Margin) childSizeChanged() {
	prev := m.size
	m.Resize(m.limits)
	if m.size != prev && m.onSize != nil {
		m.onSize()
	}
}

func (m *Margin) Resize(limits Limits) Size {
	m.limits = limits.Normalize()
	m.ctx.SetLimits(m.limits.Shrink(m.insets))
	m.ctx.SetOffset(m.insets.Left, m.insets.Top)
	inner := m.ctx.Resize()
	m.size = m.limits.Clamp(inner.Grow(m.insets))
	return m.size
}

func (m *Margin) Size() Size { return m.size }

func (m *Margin) CellAt(p Position) cell.Cell {
	if !m.size.Contains(p) {
		return cell.Empty()
	}
	return m.ctx.CellAt(p)
}

func (m *Margin) HandlesInput() bool {
	c := m.ctx.Child()
	return c != nil && c.HandlesInput()
}

func (m *Margin) OnInput(msg tea.Msg) bool {
	if !m.HandlesInput() {
		return false
	}
	return m.ctx.Child().OnInput(msg)
}

func (m *Margin) Children() []Surface {
	if c := m.ctx.Child(); c != nil {
		return []Surface{c}
	}
	return nil
}

func (m *Margin) Dispose() { m.ctx.Release() }
