package surface

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/cellframe/internal/cell"
	"github.com/andyrewlee/cellframe/internal/scheduler"
	"github.com/andyrewlee/cellframe/internal/segment"
)

func bareFrame(t *testing.T, content Surface) *Frame {
	t.Helper()
	f, err := NewFrame(content)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	f.SetBorder(BorderNone)
	return f
}

func TestOffsetComposition(t *testing.T) {
	leaf := newLeaf(t, "abcdef", "ghijkl", "mnopqr", "stuvwx")
	margin, err := NewMargin(leaf, Insets{Left: 2, Top: 1, Right: 1, Bottom: 1})
	if err != nil {
		t.Fatalf("NewMargin: %v", err)
	}
	f, err := NewFrame(margin)
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	f.SetTitle("T")
	f.Resize(Fixed(Size{Width: 20, Height: 15}))

	frameInsets := f.Insets()
	if frameInsets != (Insets{Left: 1, Top: 3, Right: 1, Bottom: 1}) {
		t.Fatalf("unexpected frame insets %+v", frameInsets)
	}
	abs := Pos(frameInsets.Left+margin.Insets().Left+2, frameInsets.Top+margin.Insets().Top+3)
	got := f.CellAt(abs)
	want := leaf.CellAt(Pos(2, 3))
	if got != want || want.Glyph != 'u' {
		t.Fatalf("expected %q at %+v, got %q", want.Glyph, abs, got.Glyph)
	}
}

func TestScrollbarProportionality(t *testing.T) {
	f := bareFrame(t, newLeaf(t, numbered(100)...))
	f.Resize(Fixed(Size{Width: 10, Height: 10}))

	if f.ContentHeight() != 100 {
		t.Fatalf("expected content height 100, got %d", f.ContentHeight())
	}
	bar := f.Viewport().Width - 1
	if bar != 9 {
		t.Fatalf("expected scrollbar in column 9, got %d", bar)
	}

	if g := f.CellAt(Pos(bar, 0)).Glyph; g != '█' {
		t.Fatalf("top=0: expected thumb on row 0, got %q", g)
	}
	if g := f.CellAt(Pos(bar, 1)).Glyph; g != '░' {
		t.Fatalf("top=0: expected track on row 1, got %q", g)
	}

	f.ScrollTo(90)
	if f.Top() != 90 {
		t.Fatalf("expected top 90, got %d", f.Top())
	}
	if g := f.CellAt(Pos(bar, 9)).Glyph; g != '█' {
		t.Fatalf("top=90: expected thumb on final row, got %q", g)
	}
	if g := f.CellAt(Pos(bar, 8)).Glyph; g != '░' {
		t.Fatalf("top=90: expected track on row 8, got %q", g)
	}
	if got := row(f, 0); got[:3] != "090" {
		t.Fatalf("expected row 090 at the top of the viewport, got %q", got)
	}
}

func TestNoThumbWhenContentFits(t *testing.T) {
	f := bareFrame(t, newLeaf(t, numbered(4)...))
	f.Resize(Fixed(Size{Width: 10, Height: 10}))
	f.ScrollBy(5)
	if f.Top() != 0 {
		t.Fatalf("expected top forced to 0, got %d", f.Top())
	}
	for y := 0; y < 10; y++ {
		if c := f.CellAt(Pos(9, y)); !c.IsEmpty() {
			t.Fatalf("row %d: expected no scrollbar, got %q", y, c.Glyph)
		}
	}
}

func TestScrollClampsUnderRepeatedInput(t *testing.T) {
	f := bareFrame(t, newLeaf(t, numbered(30)...))
	f.Resize(Fixed(Size{Width: 8, Height: 10}))
	down := tea.KeyPressMsg{Code: tea.KeyDown}
	for i := 0; i < 100; i++ {
		if !f.OnInput(down) {
			t.Fatalf("scroll key should be handled")
		}
		if f.Top() > 20 {
			t.Fatalf("top exceeded bound: %d", f.Top())
		}
	}
	if f.Top() != 20 {
		t.Fatalf("expected top to converge to 20, got %d", f.Top())
	}
	for i := 0; i < 100; i++ {
		f.OnInput(tea.KeyPressMsg{Code: tea.KeyUp})
	}
	if f.Top() != 0 {
		t.Fatalf("expected top to converge to 0, got %d", f.Top())
	}
}

func TestScrollInputs(t *testing.T) {
	f := bareFrame(t, newLeaf(t, numbered(50)...))
	f.Resize(Fixed(Size{Width: 8, Height: 10}))

	tests := []struct {
		name string
		msg  tea.Msg
		top  int
	}{
		{"page down", tea.KeyPressMsg{Code: tea.KeyPgDown}, 10},
		{"wheel down", tea.MouseWheelMsg{Button: tea.MouseWheelDown}, 13},
		{"wheel up", tea.MouseWheelMsg{Button: tea.MouseWheelUp}, 10},
		{"end", tea.KeyPressMsg{Code: tea.KeyEnd}, 40},
		{"page up", tea.KeyPressMsg{Code: tea.KeyPgUp}, 30},
		{"home", tea.KeyPressMsg{Code: tea.KeyHome}, 0},
	}
	for _, tc := range tests {
		if !f.OnInput(tc.msg) {
			t.Fatalf("%s: expected input handled", tc.name)
		}
		if f.Top() != tc.top {
			t.Fatalf("%s: expected top %d, got %d", tc.name, tc.top, f.Top())
		}
	}
}

func TestUnhandledInputReachesContent(t *testing.T) {
	leaf := newLeaf(t, "x")
	var got tea.Msg
	leaf.SetInputHandler(func(msg tea.Msg) bool {
		got = msg
		return true
	})
	f := bareFrame(t, leaf)
	f.Resize(Fixed(Size{Width: 5, Height: 5}))

	msg := tea.KeyPressMsg{Code: 'a', Text: "a"}
	if !f.OnInput(msg) {
		t.Fatalf("expected content to consume input")
	}
	if got == nil {
		t.Fatalf("expected content to receive the key")
	}
}

func TestNonScrollableFrame(t *testing.T) {
	f := bareFrame(t, newLeaf(t, "abcde", "fghij", "klmno"))
	f.SetScrollable(false)
	f.Resize(Fixed(Size{Width: 5, Height: 2}))
	if f.HandlesInput() {
		t.Fatalf("non-scrollable frame around a passive leaf should not take input")
	}
	if got := row(f, 0); got != "abcde" {
		t.Fatalf("expected full-width content without a scrollbar column, got %q", got)
	}
	if f.ScrollBy(1) || f.Top() != 0 {
		t.Fatalf("non-scrollable frame must not scroll")
	}
}

func TestBorderAndTitleCells(t *testing.T) {
	f, err := NewFrame(newLeaf(t, "xy"))
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	f.SetBorder(BorderSquare)
	f.SetTitle("Hi")
	f.Resize(Fixed(Size{Width: 8, Height: 6}))

	want := []string{
		"┌──────┐",
		"│Hi    │",
		"│──────│",
		"│xy    │",
		"│      │",
		"└──────┘",
	}
	for y, w := range want {
		if got := row(f, y); got != w {
			t.Fatalf("row %d: expected %q, got %q", y, w, got)
		}
	}
	if !f.CellAt(Pos(1, 1)).Decoration.Has(cell.Bold) {
		t.Fatalf("expected bold title")
	}
}

func TestPartialPlacement(t *testing.T) {
	f, err := NewFrame(newLeaf(t, "ab"))
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	f.SetBorder(BorderDouble)
	f.SetPlacement(PlaceTop | PlaceBottom)
	f.Resize(Fixed(Size{Width: 4, Height: 3}))

	want := []string{"════", "ab  ", "════"}
	for y, w := range want {
		if got := row(f, y); got != w {
			t.Fatalf("row %d: expected %q, got %q", y, w, got)
		}
	}
}

func TestTitleTruncatesAndHandlesWideGlyphs(t *testing.T) {
	f, err := NewFrame(newLeaf(t, ""))
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	f.SetBorder(BorderASCII)
	f.SetTitle("abcdefghij")
	f.Resize(Fixed(Size{Width: 6, Height: 5}))
	if got := row(f, 1); got != "|abcd|" {
		t.Fatalf("expected truncated title, got %q", got)
	}
	if got := row(f, 2); got != "|----|" {
		t.Fatalf("expected ascii separator, got %q", got)
	}

	f.SetTitle("界x")
	if got := row(f, 1); got != "|界x |" {
		t.Fatalf("expected wide title glyph, got %q", got)
	}
	if !f.CellAt(Pos(2, 1)).IsReserved() {
		t.Fatalf("expected reserved half after wide glyph")
	}
}

func TestUnboundedHeightFrameFitsContent(t *testing.T) {
	f, err := NewFrame(newLeaf(t, "a", "b", "c"))
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	f.SetBorder(BorderSquare)
	size := f.Resize(Limits{Max: Size{Width: 10, Height: Unbounded}})
	if size != (Size{Width: 10, Height: 5}) {
		t.Fatalf("expected 10x5, got %+v", size)
	}
	if f.ScrollBy(1) {
		t.Fatalf("frame sized to content must not scroll")
	}
}

func TestZeroSizeFrameDoesNotPanic(t *testing.T) {
	f, err := NewFrame(newLeaf(t, "abc"))
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	f.SetTitle("title")
	for _, s := range []Size{{}, {Width: 1, Height: 1}, {Width: 2, Height: 2}, {Width: -3, Height: 4}} {
		f.Resize(Fixed(s))
		for y := -1; y <= 3; y++ {
			for x := -1; x <= 3; x++ {
				f.CellAt(Pos(x, y))
			}
		}
	}
}

func TestResizeIsIdempotent(t *testing.T) {
	f, err := NewFrame(newLeaf(t, numbered(20)...))
	if err != nil {
		t.Fatalf("NewFrame: %v", err)
	}
	f.SetTitle("log")
	lim := Fixed(Size{Width: 12, Height: 8})
	f.Resize(lim)
	f.ScrollTo(4)
	var first []string
	for y := 0; y < 8; y++ {
		first = append(first, row(f, y))
	}
	f.Resize(lim)
	for y := 0; y < 8; y++ {
		if got := row(f, y); got != first[y] {
			t.Fatalf("row %d changed after second resize: %q vs %q", y, first[y], got)
		}
	}
}

func TestContentGrowthRelayoutsFrame(t *testing.T) {
	s := scheduler.New(time.Hour)
	leaf := newLeaf(t, "a")
	leaf.Attach(s)
	f := bareFrame(t, leaf)
	s.Do(func() { f.Resize(Fixed(Size{Width: 10, Height: 5})) })
	if f.ContentHeight() != 5 {
		t.Fatalf("expected content stretched to viewport, got %d", f.ContentHeight())
	}

	s.Do(func() {
		if err := leaf.SetProducer(segment.Lines(numbered(20)...)); err != nil {
			t.Errorf("SetProducer: %v", err)
		}
	})
	if n := s.Flush(); n != 1 {
		t.Fatalf("expected one render, got %d", n)
	}
	if f.ContentHeight() != 20 {
		t.Fatalf("expected frame to pick up new content height, got %d", f.ContentHeight())
	}
	s.Do(func() { f.ScrollTo(100) })
	if f.Top() != 15 {
		t.Fatalf("expected top clamped to 15, got %d", f.Top())
	}

	f.Dispose()
	if s.Registered() != 0 {
		t.Fatalf("expected disposal to drop the leaf registration")
	}
}

func TestSetContentDisposesOld(t *testing.T) {
	old := &fake{glyph: 'o'}
	f := bareFrame(t, old)
	f.Resize(Fixed(Size{Width: 4, Height: 2}))
	if err := f.SetContent(&fake{glyph: 'n'}); err != nil {
		t.Fatalf("SetContent: %v", err)
	}
	if old.disposed != 1 {
		t.Fatalf("expected old content disposed")
	}
	if f.CellAt(Pos(0, 0)).Glyph != 'n' {
		t.Fatalf("expected new content drawn")
	}
	if err := f.SetContent(nil); err == nil {
		t.Fatalf("expected error for nil content")
	}
}
