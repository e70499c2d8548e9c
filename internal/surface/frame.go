package surface

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/cellframe/internal/cell"
	"github.com/andyrewlee/cellframe/internal/grid"
	"github.com/andyrewlee/cellframe/internal/keymap"
	"github.com/andyrewlee/cellframe/internal/segment"
)

const wheelStep = 3

// Frame wraps one content surface with an optional border, a title bar,
// margins and a vertically scrollable viewport.
//
// Layout from the outside in: border, then the title row and its
// separator rule (both under the top border), then the margin, then the
// viewport. A scrollable frame reserves the viewport's rightmost column
// for the scrollbar whether or not the content overflows, so content
// width never flips as its height changes.
type Frame struct {
	owner

	content *Context

	border     BorderStyle
	placement  Placement
	title      string
	margin     Insets
	scrollable bool
	keys       keymap.KeyMap
	writer     *segment.Writer

	LineStyle      cell.Style
	TitleStyle     cell.Style
	ScrollbarStyle cell.Style

	limits   Limits
	sized    bool
	size     Size
	insets   Insets
	viewport Rect
	scroll   scrollState
	titleBuf *grid.Buffer
	onSize   func()
}

// NewFrame wraps content in a rounded, fully bordered, scrollable frame.
func NewFrame(content Surface) (*Frame, error) {
	f := &Frame{
		border:         BorderRounded,
		placement:      PlaceAll,
		scrollable:     true,
		keys:           keymap.Default(),
		writer:         segment.NewWriter(segment.DefaultTabWidth),
		TitleStyle:     cell.Style{Decoration: cell.Bold},
		ScrollbarStyle: cell.Style{Decoration: cell.Dim},
		titleBuf:       grid.NewBuffer(0, 0),
	}
	ctx, err := Bind(f, content)
	if err != nil {
		return nil, err
	}
	f.content = ctx
	ctx.Watch(f.contentSizeChanged)
	return f, nil
}

// Content returns the wrapped surface.
func (f *Frame) Content() Surface { return f.content.Child() }

// SetContent replaces the wrapped surface, disposing the old one.
func (f *Frame) SetContent(s Surface) error {
	if err := f.content.Rebind(s); err != nil {
		return err
	}
	f.scroll.top = 0
	f.relayout()
	return nil
}

// SetBorder changes the glyph table.
func (f *Frame) SetBorder(b BorderStyle) {
	f.border = b
	f.relayout()
}

// Border returns the glyph table in use.
func (f *Frame) Border() BorderStyle { return f.border }

// SetPlacement selects which edges carry a border.
func (f *Frame) SetPlacement(p Placement) {
	f.placement = p
	f.relayout()
}

// SetTitle sets the title. An empty title removes the title rows.
func (f *Frame) SetTitle(title string) {
	f.title = strings.ReplaceAll(strings.ReplaceAll(title, "\r", ""), "\n", " ")
	f.relayout()
}

// Title returns the title.
func (f *Frame) Title() string { return f.title }

// SetMargin sets the space between the border/title and the viewport.
func (f *Frame) SetMargin(in Insets) {
	f.margin = in.clamp()
	f.relayout()
}

// SetScrollable turns the viewport and scrollbar on or off.
func (f *Frame) SetScrollable(v bool) {
	f.scrollable = v
	if !v {
		f.scroll.top = 0
	}
	f.relayout()
}

// SetKeyMap replaces the scroll bindings.
func (f *Frame) SetKeyMap(km keymap.KeyMap) { f.keys = km }

// SetWriter changes how the title is laid out.
func (f *Frame) SetWriter(w *segment.Writer) {
	if w != nil {
		f.writer = w
		f.relayout()
	}
}

// SetSizeChanged implements SizeNotifier.
func (f *Frame) SetSizeChanged(fn func()) { f.onSize = fn }

// Top returns the first visible content row.
func (f *Frame) Top() int { return f.scroll.top }

// ContentHeight returns the content's laid-out height.
func (f *Frame) ContentHeight() int { return f.scroll.content }

// Viewport returns the viewport rectangle in frame coordinates, including
// the scrollbar column.
func (f *Frame) Viewport() Rect { return f.viewport }

// Insets returns the space taken by border, title and margin.
func (f *Frame) Insets() Insets { return f.insets }

// ScrollBy moves the viewport by delta rows and reports whether it moved.
func (f *Frame) ScrollBy(delta int) bool {
	moved := f.scroll.by(delta)
	f.pushOffset()
	return moved
}

// ScrollTo moves the viewport so top is the first visible row, clamped.
func (f *Frame) ScrollTo(top int) bool {
	moved := f.scroll.to(top)
	f.pushOffset()
	return moved
}

func (f *Frame) edges() (top, bottom, left, right int) {
	if !f.border.Visible() {
		return 0, 0, 0, 0
	}
	b := func(p Placement) int {
		if f.placement.Has(p) {
			return 1
		}
		return 0
	}
	return b(PlaceTop), b(PlaceBottom), b(PlaceLeft), b(PlaceRight)
}

func (f *Frame) computeInsets() Insets {
	top, bottom, left, right := f.edges()
	if f.title != "" {
		top += 2
	}
	return Insets{Left: left, Top: top, Right: right, Bottom: bottom}.Add(f.margin)
}

func (f *Frame) contentSizeChanged() {
	f.relayout()
}

func (f *Frame) relayout() {
	if !f.sized {
		return
	}
	prev := f.size
	f.layout()
	if f.size != prev && f.onSize != nil {
		f.onSize()
	}
}

// Resize recomputes insets, lays the content out and re-clamps the
// scroll position. With an unbounded height the frame grows to fit its
// content and never scrolls.
func (f *Frame) Resize(limits Limits) Size {
	f.limits = limits.Normalize()
	f.sized = true
	f.layout()
	return f.size
}

func (f *Frame) layout() {
	f.insets = f.computeInsets()
	l := f.limits

	outerW := l.BoundedWidth()
	vw := max(0, outerW-f.insets.Horizontal())
	cw := vw
	if f.scrollable {
		cw = max(0, vw-1)
	}

	var outerH, vh int
	var cs Size
	if l.Max.Height >= Unbounded {
		minH := max(0, l.Min.Height-f.insets.Vertical())
		f.content.SetLimits(Limits{Min: Size{Width: cw, Height: minH}, Max: Size{Width: cw, Height: Unbounded}})
		cs = f.content.Resize()
		vh = cs.Height
		outerH = vh + f.insets.Vertical()
	} else {
		outerH = l.Max.Height
		vh = max(0, outerH-f.insets.Vertical())
		maxH := vh
		if f.scrollable {
			maxH = Unbounded
		}
		f.content.SetLimits(Limits{Min: Size{Width: cw, Height: vh}, Max: Size{Width: cw, Height: maxH}})
		cs = f.content.Resize()
	}

	f.size = l.Clamp(Size{Width: outerW, Height: outerH})
	// The viewport never extends past the frame, however the insets add up.
	vw = max(0, min(vw, f.size.Width-f.insets.Left))
	vh = max(0, min(vh, f.size.Height-f.insets.Top))
	f.viewport = Rect{X: f.insets.Left, Y: f.insets.Top, Width: vw, Height: vh}

	contentH := cs.Height
	if !f.scrollable {
		contentH = min(contentH, vh)
	}
	f.scroll.set(vh, contentH)
	f.pushOffset()
	f.layoutTitle()
}

func (f *Frame) pushOffset() {
	f.content.SetOffset(f.insets.Left, f.insets.Top-f.scroll.top)
}

func (f *Frame) layoutTitle() {
	if f.title == "" {
		f.titleBuf.Resize(0, 0)
		return
	}
	_, _, left, right := f.edges()
	f.titleBuf.Resize(max(0, f.size.Width-left-right), 1)
	var cur grid.Cursor
	f.writer.Write(f.titleBuf, &cur, []segment.Segment{segment.Styled(f.title, f.TitleStyle)}, nil)
}

func (f *Frame) Size() Size { return f.size }

// CellAt resolves p in priority order: scrollbar, content, border,
// title rows, then empty.
func (f *Frame) CellAt(p Position) cell.Cell {
	if !f.size.Contains(p) {
		return cell.Empty()
	}
	if f.viewport.Contains(p) {
		if f.scrollable && p.X == f.viewport.X+f.viewport.Width-1 {
			return f.scrollbarCell(p.Y - f.viewport.Y)
		}
		return f.content.CellAt(p)
	}
	if c, ok := f.borderCell(p); ok {
		return c
	}
	if c, ok := f.titleCell(p); ok {
		return c
	}
	return cell.Empty()
}

func (f *Frame) scrollbarCell(row int) cell.Cell {
	if !f.scroll.scrollable() {
		return cell.Empty()
	}
	thumb, track := '█', '░'
	if f.border == BorderASCII {
		thumb, track = '#', '|'
	}
	start, end := f.scroll.thumb()
	g := track
	if row >= start && row < end {
		g = thumb
	}
	return cell.New(cell.Character{Glyph: g, Style: f.ScrollbarStyle})
}

func (f *Frame) borderCell(p Position) (cell.Cell, bool) {
	top, bottom, left, right := f.edges()
	if top+bottom+left+right == 0 {
		return cell.Cell{}, false
	}
	w, h := f.size.Width, f.size.Height
	atTop := top == 1 && p.Y == 0
	atBottom := bottom == 1 && p.Y == h-1
	atLeft := left == 1 && p.X == 0
	atRight := right == 1 && p.X == w-1

	var part BorderPart
	switch {
	case atTop && atLeft:
		part = PartTopLeft
	case atTop && atRight:
		part = PartTopRight
	case atBottom && atLeft:
		part = PartBottomLeft
	case atBottom && atRight:
		part = PartBottomRight
	case atTop:
		part = PartTop
	case atBottom:
		part = PartBottom
	case atLeft:
		part = PartLeft
	case atRight:
		part = PartRight
	default:
		return cell.Cell{}, false
	}
	return cell.New(cell.Character{Glyph: f.border.Glyph(part), Style: f.LineStyle}), true
}

func (f *Frame) titleCell(p Position) (cell.Cell, bool) {
	if f.title == "" {
		return cell.Cell{}, false
	}
	top, _, left, right := f.edges()
	if p.X < left || p.X >= f.size.Width-right {
		return cell.Cell{}, false
	}
	switch p.Y {
	case top:
		return f.titleBuf.At(p.X-left, 0), true
	case top + 1:
		g := f.border.Glyph(PartTop)
		if g == 0 {
			g = '─'
		}
		return cell.New(cell.Character{Glyph: g, Style: f.LineStyle}), true
	}
	return cell.Cell{}, false
}

func (f *Frame) HandlesInput() bool {
	if f.scrollable {
		return true
	}
	c := f.content.Child()
	return c != nil && c.HandlesInput()
}

// OnInput applies scroll bindings and wheel events, then offers anything
// left over to the content.
func (f *Frame) OnInput(msg tea.Msg) bool {
	if f.scrollable {
		switch msg := msg.(type) {
		case tea.KeyPressMsg:
			switch {
			case key.Matches(msg, f.keys.ScrollUp):
				f.ScrollBy(-1)
				return true
			case key.Matches(msg, f.keys.ScrollDown):
				f.ScrollBy(1)
				return true
			case key.Matches(msg, f.keys.PageUp):
				f.ScrollBy(-max(1, f.scroll.viewport))
				return true
			case key.Matches(msg, f.keys.PageDown):
				f.ScrollBy(max(1, f.scroll.viewport))
				return true
			case key.Matches(msg, f.keys.ScrollTop):
				f.ScrollTo(0)
				return true
			case key.Matches(msg, f.keys.ScrollBottom):
				f.ScrollTo(f.scroll.maxTop())
				return true
			}
		case tea.MouseWheelMsg:
			switch msg.Mouse().Button {
			case tea.MouseWheelUp:
				f.ScrollBy(-wheelStep)
				return true
			case tea.MouseWheelDown:
				f.ScrollBy(wheelStep)
				return true
			}
		}
	}
	if c := f.content.Child(); c != nil && c.HandlesInput() {
		return c.OnInput(msg)
	}
	return false
}

func (f *Frame) Children() []Surface {
	if c := f.content.Child(); c != nil {
		return []Surface{c}
	}
	return nil
}

func (f *Frame) Dispose() { f.content.Release() }
