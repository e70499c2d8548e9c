package segment

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/andyrewlee/cellframe/internal/cell"
	"github.com/andyrewlee/cellframe/internal/grid"
)

// DefaultTabWidth is used when a Writer is configured with a width below 1.
const DefaultTabWidth = 4

// Writer replays segments into a buffer.
type Writer struct {
	TabWidth int
}

// NewWriter returns a writer expanding tabs to tabWidth columns.
func NewWriter(tabWidth int) *Writer {
	return &Writer{TabWidth: tabWidth}
}

func (w *Writer) tabWidth() int {
	if w == nil || w.TabWidth < 1 {
		return DefaultTabWidth
	}
	return w.TabWidth
}

// Write replays segs into buf starting at cur, leaving cur after the last
// written position. styleOf resolves Scope names; it may be nil.
func (w *Writer) Write(buf *grid.Buffer, cur *grid.Cursor, segs []Segment, styleOf func(scope string) Style) {
	w.walk(cur, segs, styleOf, func(x, y int, c cell.Cell) {
		if c.Width == 2 && !buf.InBounds(x+1, y) {
			// Half a wide glyph is never drawn.
			return
		}
		buf.Set(x, y, c)
		if c.Width == 2 {
			buf.Set(x+1, y, cell.Reserved(c.Character))
		}
	})
}

// Extent reports the size a buffer needs to hold segs written from the
// origin: the widest row and the number of rows touched.
func (w *Writer) Extent(segs []Segment) (width, height int) {
	if len(segs) == 0 {
		return 0, 0
	}
	var cur grid.Cursor
	w.walk(&cur, segs, nil, func(x, y int, c cell.Cell) {
		if end := x + int(c.Width); end > width {
			width = end
		}
	})
	if cur.X > width {
		width = cur.X
	}
	return width, cur.Y + 1
}

func (w *Writer) walk(cur *grid.Cursor, segs []Segment, styleOf func(string) Style, emit func(x, y int, c cell.Cell)) {
	tw := w.tabWidth()
	for _, seg := range segs {
		style := seg.Style
		if seg.Scope != "" && styleOf != nil {
			style = styleOf(seg.Scope)
		}

		if seg.Control {
			for _, r := range seg.Text {
				emit(cur.X, cur.Y, cell.New(cell.Character{Glyph: r, Style: style, Control: true}))
				cur.MoveBy(1, 0)
			}
			continue
		}

		text := normalizeNewlines(seg.Text)
		for i, line := range strings.Split(text, "\n") {
			if i > 0 {
				cur.NewLine()
			}
			for _, r := range line {
				if r == '\t' {
					n := tw - cur.X%tw
					if n <= 0 {
						n = tw
					}
					for j := 0; j < n; j++ {
						emit(cur.X, cur.Y, cell.New(cell.Character{Glyph: ' ', Style: style}))
						cur.MoveBy(1, 0)
					}
					continue
				}
				width := runewidth.RuneWidth(r)
				if width < 0 {
					width = 0
				}
				switch width {
				case 0:
					continue
				case 1:
					emit(cur.X, cur.Y, cell.New(cell.Character{Glyph: r, Style: style}))
					cur.MoveBy(1, 0)
				default:
					emit(cur.X, cur.Y, cell.Cell{Character: cell.Character{Glyph: r, Style: style}, Width: 2})
					cur.MoveBy(2, 0)
				}
			}
		}
	}
}

func normalizeNewlines(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
