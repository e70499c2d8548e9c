package surface

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/cellframe/internal/cell"
	"github.com/andyrewlee/cellframe/internal/grid"
	"github.com/andyrewlee/cellframe/internal/perf"
	"github.com/andyrewlee/cellframe/internal/scheduler"
	"github.com/andyrewlee/cellframe/internal/segment"
)

// Leaf is a producer-backed control with its own buffer. Each render
// clears the buffer and replays the producer's segments into it.
type Leaf struct {
	owner

	producer segment.Producer
	writer   *segment.Writer
	styleOf  func(scope string) segment.Style
	opts     segment.RenderOptions
	onInput  func(tea.Msg) bool

	buf    *grid.Buffer
	cursor grid.Cursor
	limits Limits
	size   Size

	dirty  *scheduler.Dirty
	reg    *scheduler.Registration
	onSize func()
}

// NewLeaf wraps p. The leaf renders nothing until its first Resize.
func NewLeaf(p segment.Producer) (*Leaf, error) {
	if p == nil {
		return nil, ErrNilProducer
	}
	l := &Leaf{
		producer: p,
		writer:   segment.NewWriter(segment.DefaultTabWidth),
		buf:      grid.NewBuffer(0, 0),
	}
	l.dirty = scheduler.NewDirty(l.render)
	l.dirty.SetAdvance(l.advance)
	return l, nil
}

// Attach registers the leaf's repaint counter with s. Attaching again
// moves the registration.
func (l *Leaf) Attach(s *scheduler.Scheduler) {
	l.reg.Close()
	l.reg = s.Register(l.dirty)
}

// Dispose drops the scheduler registration.
func (l *Leaf) Dispose() {
	l.reg.Close()
	l.reg = nil
}

// Invalidate requests a repaint on the next tick. Safe from any goroutine.
func (l *Leaf) Invalidate() {
	l.dirty.Invalidate()
}

// Dirty exposes the leaf's repaint counter.
func (l *Leaf) Dirty() *scheduler.Dirty {
	return l.dirty
}

// SetProducer replaces the content source and schedules a repaint.
func (l *Leaf) SetProducer(p segment.Producer) error {
	if p == nil {
		return ErrNilProducer
	}
	l.producer = p
	l.dirty.Invalidate()
	return nil
}

// Producer returns the content source.
func (l *Leaf) Producer() segment.Producer {
	return l.producer
}

// SetWriter changes tab expansion for subsequent renders.
func (l *Leaf) SetWriter(w *segment.Writer) {
	if w != nil {
		l.writer = w
	}
}

// SetStyleResolver installs the lookup for scoped segments.
func (l *Leaf) SetStyleResolver(fn func(scope string) segment.Style) {
	l.styleOf = fn
}

// SetRenderOptions sets the options passed to the producer.
func (l *Leaf) SetRenderOptions(opts segment.RenderOptions) {
	l.opts = opts
}

// SetInputHandler makes the leaf accept input through fn.
func (l *Leaf) SetInputHandler(fn func(tea.Msg) bool) {
	l.onInput = fn
}

// SetSizeChanged implements SizeNotifier.
func (l *Leaf) SetSizeChanged(fn func()) {
	l.onSize = fn
}

// Resize measures the producer within limits and re-renders. Requests
// made before the call are covered by this render and are dropped; one
// arriving while it runs still reaches the next tick.
func (l *Leaf) Resize(limits Limits) Size {
	l.limits = limits.Normalize()
	l.dirty.Validate()
	l.layout()
	return l.size
}

// Size returns the current size.
func (l *Leaf) Size() Size {
	return l.size
}

// CellAt returns the buffered cell at p.
func (l *Leaf) CellAt(p Position) cell.Cell {
	return l.buf.At(p.X, p.Y)
}

// Cursor returns where the writer stopped after the last render.
func (l *Leaf) Cursor() grid.Cursor {
	return l.cursor
}

// Buffer exposes the backing buffer for read-only inspection.
func (l *Leaf) Buffer() *grid.Buffer {
	return l.buf
}

// HandlesInput reports whether an input handler is installed.
func (l *Leaf) HandlesInput() bool {
	return l.onInput != nil
}

// OnInput passes msg to the installed handler.
func (l *Leaf) OnInput(msg tea.Msg) bool {
	if l.onInput == nil {
		return false
	}
	return l.onInput(msg)
}

// render runs from the scheduler when the leaf is dirty. A change in the
// natural size is reported to the parent so it can lay the leaf out again.
func (l *Leaf) render() {
	prev := l.size
	l.layout()
	if l.size != prev && l.onSize != nil {
		l.onSize()
	}
}

func (l *Leaf) advance(elapsed time.Duration) bool {
	if a, ok := l.producer.(Animator); ok {
		return a.Advance(elapsed)
	}
	return false
}

func (l *Leaf) layout() {
	defer perf.Time("leaf_render")()

	maxWidth := l.limits.Max.Width
	m := l.producer.Measure(maxWidth)
	width := max(0, m.Max)

	opts := l.opts
	if l.limits.Max.Height < Unbounded {
		opts.Height = l.limits.Max.Height
	}
	segs := l.producer.Render(opts, min(width, maxWidth))
	_, height := l.writer.Extent(segs)

	l.size = l.limits.Clamp(Size{Width: width, Height: height})
	l.buf.Resize(l.size.Width, l.size.Height)
	l.cursor = grid.Cursor{}
	l.writer.Write(l.buf, &l.cursor, segs, l.styleOf)
}
