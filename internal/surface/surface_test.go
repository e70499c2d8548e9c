package surface

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/cellframe/internal/cell"
	"github.com/andyrewlee/cellframe/internal/scheduler"
	"github.com/andyrewlee/cellframe/internal/segment"
)

// fake is a 1x1 surface that records disposal.
type fake struct {
	glyph    rune
	size     Size
	disposed int
	children []Surface
}

func (p *fake) Resize(l Limits) Size {
	p.size = l.Clamp(Size{Width: 1, Height: 1})
	return p.size
}
func (p *fake) Size() Size { return p.size }
func (p *fake) CellAt(pos Position) cell.Cell {
	if !p.size.Contains(pos) {
		return cell.Empty()
	}
	return cell.New(cell.Character{Glyph: p.glyph})
}
func (p *fake) HandlesInput() bool { return false }
func (p *fake) OnInput(tea.Msg) bool { return false }
func (p *fake) Dispose() { p.disposed++ }
func (p *fake) Children() []Surface { return p.children }

func newLeaf(t *testing.T, lines ...string) *Leaf {
	t.Helper()
	l, err := NewLeaf(segment.Lines(lines...))
	if err != nil {
		t.Fatalf("NewLeaf: %v", err)
	}
	return l
}

func numbered(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("%03d", i)
	}
	return out
}

func row(s Surface, y int) string {
	var b strings.Builder
	for x := 0; x < s.Size().Width; x++ {
		c := s.CellAt(Pos(x, y))
		switch {
		case c.IsReserved():
		case c.Glyph == 0:
			b.WriteByte(' ')
		default:
			b.WriteRune(c.Glyph)
		}
	}
	return b.String()
}

func TestBindNilChild(t *testing.T) {
	if _, err := Bind(&fake{}, nil); !errors.Is(err, ErrNilSurface) {
		t.Fatalf("expected ErrNilSurface, got %v", err)
	}
	if _, err := NewFrame(nil); !errors.Is(err, ErrNilSurface) {
		t.Fatalf("expected ErrNilSurface from NewFrame, got %v", err)
	}
	if _, err := NewMargin(nil, Insets{}); !errors.Is(err, ErrNilSurface) {
		t.Fatalf("expected ErrNilSurface from NewMargin, got %v", err)
	}
	if _, err := NewLeaf(nil); !errors.Is(err, ErrNilProducer) {
		t.Fatalf("expected ErrNilProducer, got %v", err)
	}
}

func TestBindTypedNilChild(t *testing.T) {
	var leaf *Leaf
	if _, err := NewFrame(leaf); !errors.Is(err, ErrNilSurface) {
		t.Fatalf("expected ErrNilSurface from NewFrame, got %v", err)
	}
	if _, err := NewMargin(leaf, Insets{}); !errors.Is(err, ErrNilSurface) {
		t.Fatalf("expected ErrNilSurface from NewMargin, got %v", err)
	}
	if _, err := NewStack().Add(leaf); !errors.Is(err, ErrNilSurface) {
		t.Fatalf("expected ErrNilSurface from Stack.Add, got %v", err)
	}
	if _, err := NewGrid(1, 1, leaf); !errors.Is(err, ErrNilSurface) {
		t.Fatalf("expected ErrNilSurface from NewGrid, got %v", err)
	}
	f := bareFrame(t, newLeaf(t, "x"))
	if err := f.SetContent(leaf); !errors.Is(err, ErrNilSurface) {
		t.Fatalf("expected ErrNilSurface from SetContent, got %v", err)
	}
}

func TestBoundSurfaceCannotBeSharedUntilReleased(t *testing.T) {
	s := scheduler.New(time.Hour)
	leaf := newLeaf(t, "a")
	leaf.Attach(s)

	first := bareFrame(t, leaf)
	if _, err := NewFrame(leaf); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("expected ErrAlreadyBound, got %v", err)
	}
	if _, err := NewStack().Add(leaf); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("expected ErrAlreadyBound from Stack.Add, got %v", err)
	}
	other := bareFrame(t, newLeaf(t, "b"))
	if err := other.SetContent(leaf); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("expected ErrAlreadyBound from SetContent, got %v", err)
	}
	if s.Registered() != 1 || leaf.onSize == nil {
		t.Fatalf("rejected binds must leave the first edge intact")
	}
	if err := first.SetContent(leaf); err != nil {
		t.Fatalf("rebinding the current child should be a no-op, got %v", err)
	}

	if err := first.SetContent(&fake{}); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	second, err := NewFrame(leaf)
	if err != nil {
		t.Fatalf("expected released leaf to bind again, got %v", err)
	}
	if second.Content() != Surface(leaf) || leaf.onSize == nil {
		t.Fatalf("expected leaf watched by its new parent")
	}
}

func TestNewGridFailureDetachesBoundCells(t *testing.T) {
	a, b := newLeaf(t, "a"), newLeaf(t, "b")
	if _, err := NewMargin(b, Insets{}); err != nil {
		t.Fatalf("NewMargin: %v", err)
	}
	if _, err := NewGrid(1, 2, a, b); !errors.Is(err, ErrAlreadyBound) {
		t.Fatalf("expected ErrAlreadyBound, got %v", err)
	}
	if a.onSize != nil {
		t.Fatalf("expected size hook removed from the detached cell")
	}
	if _, err := NewMargin(a, Insets{}); err != nil {
		t.Fatalf("expected detached cell to bind again, got %v", err)
	}
}

func TestBindRejectsCycle(t *testing.T) {
	stack := NewStack()
	m, err := NewMargin(stack, Uniform(1))
	if err != nil {
		t.Fatalf("NewMargin: %v", err)
	}
	_, err = stack.Add(m)
	var ce *CycleError
	if !errors.As(err, &ce) || !errors.Is(err, ErrCycle) {
		t.Fatalf("expected cycle error, got %v", err)
	}
	if _, err := stack.Add(stack); !errors.Is(err, ErrCycle) {
		t.Fatalf("expected self-binding to be a cycle, got %v", err)
	}
	if stack.Len() != 0 {
		t.Fatalf("rejected children must not be added")
	}
}

func TestTooDeepTreeIsRejected(t *testing.T) {
	var s Surface = newLeaf(t, "x")
	for i := 0; i < MaxDepth+5; i++ {
		m, err := NewMargin(s, Insets{})
		if err != nil {
			if !errors.Is(err, ErrCycle) {
				t.Fatalf("expected ErrCycle, got %v", err)
			}
			return
		}
		s = m
	}
	t.Fatalf("expected nesting past MaxDepth to fail")
}

func TestWalkPanicsOnCycle(t *testing.T) {
	p := &fake{}
	p.children = []Surface{p}
	defer func() {
		r := recover()
		if _, ok := r.(*CycleError); !ok {
			t.Fatalf("expected *CycleError panic, got %v", r)
		}
	}()
	Walk(p, func(Surface, int) {})
}

func TestContextTranslatesAndClips(t *testing.T) {
	leaf := newLeaf(t, "ab", "cd")
	ctx, err := Bind(nil, leaf)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	ctx.SetLimits(UpTo(Size{Width: 10, Height: 10}))
	ctx.Resize()
	ctx.SetOffset(3, 4)

	if got := ctx.CellAt(Pos(4, 5)); got.Glyph != 'd' {
		t.Fatalf("expected 'd' at (4,5), got %q", got.Glyph)
	}
	if ctx.Contains(Pos(2, 4)) || ctx.Contains(Pos(5, 4)) {
		t.Fatalf("positions outside the child must not be contained")
	}
	if !ctx.CellAt(Pos(0, 0)).IsEmpty() {
		t.Fatalf("expected empty cell outside child")
	}
	if b := ctx.Bounds(); b != (Rect{X: 3, Y: 4, Width: 2, Height: 2}) {
		t.Fatalf("unexpected bounds %+v", b)
	}
}

func TestRebindDisposesOldChild(t *testing.T) {
	old, next := &fake{glyph: 'o'}, &fake{glyph: 'n'}
	ctx, err := Bind(nil, old)
	if err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if err := ctx.Rebind(nil); !errors.Is(err, ErrNilSurface) {
		t.Fatalf("expected ErrNilSurface, got %v", err)
	}
	if old.disposed != 0 {
		t.Fatalf("failed rebind must not dispose")
	}
	if err := ctx.Rebind(next); err != nil {
		t.Fatalf("Rebind: %v", err)
	}
	if old.disposed != 1 || next.disposed != 0 {
		t.Fatalf("expected old disposed once, got old=%d next=%d", old.disposed, next.disposed)
	}
	if ctx.Child() != Surface(next) {
		t.Fatalf("expected new child bound")
	}
	ctx.Release()
	if next.disposed != 1 {
		t.Fatalf("expected Release to dispose")
	}
}

func TestLeafResizeCoversPendingInvalidation(t *testing.T) {
	s := scheduler.New(time.Hour)
	leaf := newLeaf(t, "a")
	leaf.Attach(s)
	s.Do(func() {
		leaf.Invalidate()
		leaf.Resize(UpTo(Size{Width: 4, Height: 1}))
	})
	if n := s.Flush(); n != 0 {
		t.Fatalf("expected no render after a host resize, got %d", n)
	}
	s.Do(leaf.Invalidate)
	if n := s.Flush(); n != 1 {
		t.Fatalf("expected later invalidation to render, got %d", n)
	}
}

func TestLeafResizeIdempotent(t *testing.T) {
	leaf := newLeaf(t, "hello", "world")
	lim := UpTo(Size{Width: 4, Height: 3})
	leaf.Resize(lim)
	first := leaf.Buffer().String()
	leaf.Resize(lim)
	if leaf.Buffer().String() != first {
		t.Fatalf("second resize changed content: %q vs %q", first, leaf.Buffer().String())
	}
	if leaf.Size() != (Size{Width: 4, Height: 2}) {
		t.Fatalf("unexpected size %+v", leaf.Size())
	}
	if first != "hell\nworl" {
		t.Fatalf("expected clipped content, got %q", first)
	}
}

func TestMarginOffsets(t *testing.T) {
	leaf := newLeaf(t, "x")
	m, err := NewMargin(leaf, Insets{Left: 2, Top: 1, Right: 1, Bottom: 1})
	if err != nil {
		t.Fatalf("NewMargin: %v", err)
	}
	size := m.Resize(UpTo(Size{Width: 10, Height: 10}))
	if size != (Size{Width: 4, Height: 3}) {
		t.Fatalf("expected 4x3, got %+v", size)
	}
	if m.CellAt(Pos(2, 1)).Glyph != 'x' {
		t.Fatalf("expected child at margin offset")
	}
	if !m.CellAt(Pos(0, 0)).IsEmpty() {
		t.Fatalf("expected empty margin cell")
	}
}

func TestStackLayout(t *testing.T) {
	s := NewStack()
	h1, err := s.Add(newLeaf(t, "a", "b"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Add(newLeaf(t, "c")); err != nil {
		t.Fatalf("Add: %v", err)
	}
	size := s.Resize(UpTo(Size{Width: 4, Height: 10}))
	if size != (Size{Width: 1, Height: 3}) {
		t.Fatalf("expected 1x3, got %+v", size)
	}
	if got := row(s, 2); got != "c" {
		t.Fatalf("expected second child on row 2, got %q", got)
	}

	if !s.Remove(h1) || s.Remove(h1) {
		t.Fatalf("expected first remove to succeed and second to fail")
	}
	if got := row(s, 0); got != "c" {
		t.Fatalf("expected remaining child to move up, got %q", got)
	}
	if len(s.Children()) != 1 {
		t.Fatalf("expected 1 child, got %d", len(s.Children()))
	}
}

func TestStackClipsToRemainingHeight(t *testing.T) {
	s := NewStack()
	if _, err := s.Add(newLeaf(t, numbered(5)...)); err != nil {
		t.Fatal(err)
	}
	p := &fake{glyph: 'p'}
	if _, err := s.Add(p); err != nil {
		t.Fatal(err)
	}
	s.Resize(UpTo(Size{Width: 5, Height: 3}))
	if s.Size().Height != 3 {
		t.Fatalf("expected height 3, got %d", s.Size().Height)
	}
	if p.Size().Height != 0 {
		t.Fatalf("expected no room left for second child, got %+v", p.Size())
	}
}

func TestGridLayout(t *testing.T) {
	a, b := &fake{glyph: 'a'}, &fake{glyph: 'b'}
	g, err := NewGrid(1, 2, a, b)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	g.Resize(Fixed(Size{Width: 9, Height: 2}))
	if a.Size() != (Size{Width: 4, Height: 2}) || b.Size() != (Size{Width: 5, Height: 2}) {
		t.Fatalf("unexpected cell sizes a=%+v b=%+v", a.Size(), b.Size())
	}
	if g.CellAt(Pos(4, 0)).Glyph != 'b' || g.CellAt(Pos(0, 0)).Glyph != 'a' {
		t.Fatalf("expected cells routed to their columns")
	}
	if !g.CellAt(Pos(9, 0)).IsEmpty() {
		t.Fatalf("expected empty outside grid")
	}

	c := &fake{glyph: 'c'}
	if err := g.SetCell(0, 1, c); err != nil {
		t.Fatalf("SetCell: %v", err)
	}
	if b.disposed != 1 || g.CellAt(Pos(4, 0)).Glyph != 'c' {
		t.Fatalf("expected replaced cell to be disposed and new one drawn")
	}
	if err := g.SetCell(1, 0, c); !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("expected ErrLayoutMismatch, got %v", err)
	}
}

func TestGridMismatch(t *testing.T) {
	tests := []struct {
		rows, cols, n int
	}{
		{2, 2, 3},
		{0, 1, 0},
		{1, -1, 0},
	}
	for _, tc := range tests {
		children := make([]Surface, tc.n)
		for i := range children {
			children[i] = &fake{}
		}
		if _, err := NewGrid(tc.rows, tc.cols, children...); !errors.Is(err, ErrLayoutMismatch) {
			t.Errorf("%dx%d with %d children: expected ErrLayoutMismatch, got %v", tc.rows, tc.cols, tc.n, err)
		}
	}
}

func TestGeometryClamps(t *testing.T) {
	l := Limits{Min: Size{Width: 5, Height: -2}, Max: Size{Width: 3, Height: -1}}.Normalize()
	if l.Min != (Size{Width: 3}) || l.Max != (Size{Width: 3}) {
		t.Fatalf("unexpected normalized limits %+v", l)
	}
	if s := (Size{Width: 2, Height: 2}).Shrink(Uniform(3)); s != (Size{}) {
		t.Fatalf("expected shrink to clamp at zero, got %+v", s)
	}
	if s := (Size{Width: Unbounded, Height: 1}).Grow(Uniform(1)); s.Width != Unbounded || s.Height != 3 {
		t.Fatalf("unexpected grow %+v", s)
	}
}

func TestParseBorder(t *testing.T) {
	for _, name := range []string{"none", "ascii", "double", "heavy", "rounded", "square"} {
		b, err := ParseBorder(name)
		if err != nil {
			t.Fatalf("ParseBorder(%q): %v", name, err)
		}
		if b.String() != name {
			t.Fatalf("expected %q, got %q", name, b.String())
		}
	}
	if _, err := ParseBorder("dotted"); !errors.Is(err, ErrUnknownBorder) {
		t.Fatalf("expected ErrUnknownBorder, got %v", err)
	}
	if BorderDouble.Glyph(PartTopLeft) != '╔' || BorderNone.Glyph(PartTop) != 0 {
		t.Fatalf("unexpected glyph table")
	}
}
