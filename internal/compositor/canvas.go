// Package compositor reads a composed surface tree into a screen-sized
// canvas and serializes it for a terminal host.
package compositor

import (
	"strings"

	"github.com/andyrewlee/cellframe/internal/cell"
	"github.com/andyrewlee/cellframe/internal/grid"
	"github.com/andyrewlee/cellframe/internal/perf"
	"github.com/andyrewlee/cellframe/internal/surface"
)

// Canvas is a fixed-size buffer of styled cells.
type Canvas struct {
	buf         *grid.Buffer
	placeholder cell.Cell

	// renderBuffers keep two frames alive to avoid reallocations while
	// preserving the previous output for change detection.
	renderBuffers    [2]strings.Builder
	renderBufferNext int
	last             string
}

// NewCanvas creates a new canvas filled with blank cells.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		buf:         grid.NewBuffer(max(1, width), max(1, height)),
		placeholder: cell.Empty(),
	}
}

// Width returns the canvas width.
func (c *Canvas) Width() int { return c.buf.Width() }

// Height returns the canvas height.
func (c *Canvas) Height() int { return c.buf.Height() }

// Resize resets the canvas dimensions when the size changes.
func (c *Canvas) Resize(width, height int) {
	width, height = max(1, width), max(1, height)
	if width == c.buf.Width() && height == c.buf.Height() {
		return
	}
	c.buf.Resize(width, height)
	c.last = ""
}

// SetPlaceholder sets the cell drawn where the root surface does not reach.
func (c *Canvas) SetPlaceholder(p cell.Cell) {
	if p.Width != 1 {
		p = cell.Empty()
	}
	c.placeholder = p
}

// Cell returns the cell at (x, y).
func (c *Canvas) Cell(x, y int) cell.Cell {
	return c.buf.At(x, y)
}

// Flush copies root's cells into the canvas. Positions outside root get
// the placeholder. The caller must hold the render lock.
func (c *Canvas) Flush(root surface.Surface) {
	defer perf.Time("canvas_flush")()

	var covered surface.Size
	if root != nil {
		covered = root.Size()
	}
	w, h := c.buf.Width(), c.buf.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p := surface.Pos(x, y)
			if !covered.Contains(p) {
				c.buf.Set(x, y, c.placeholder)
				continue
			}
			c.buf.Set(x, y, root.CellAt(p))
		}
	}
}

// Render serializes the canvas as ANSI text, one line per row, emitting
// only the SGR changes between neighboring cells.
func (c *Canvas) Render() string {
	b := &c.renderBuffers[c.renderBufferNext]
	c.renderBufferNext = (c.renderBufferNext + 1) % len(c.renderBuffers)
	b.Reset()
	w, h := c.buf.Width(), c.buf.Height()
	b.Grow(w * h * 2)

	for y := 0; y < h; y++ {
		// Reset per line.
		b.WriteString("\x1b[0m")
		var last cell.Style
		row := c.buf.Row(y)
		for x, cl := range row {
			if skip(row, x) {
				continue
			}
			if cl.Style != last {
				b.WriteString(cell.StyleToDeltaANSI(last, cl.Style))
				last = cl.Style
			}
			b.WriteRune(glyphOf(cl))
		}
		if y < h-1 {
			b.WriteByte('\n')
		}
	}
	b.WriteString("\x1b[0m")
	out := b.String()
	c.last = out
	return out
}

// Changed reports whether a render would differ from the last one.
func (c *Canvas) Changed() bool {
	prev := c.last
	return c.Render() != prev
}

// PlainText returns the canvas glyphs without styling.
func (c *Canvas) PlainText() string {
	var b strings.Builder
	w, h := c.buf.Width(), c.buf.Height()
	b.Grow((w + 1) * h)
	for y := 0; y < h; y++ {
		row := c.buf.Row(y)
		for x, cl := range row {
			if skip(row, x) {
				continue
			}
			b.WriteRune(glyphOf(cl))
		}
		if y < h-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// skip reports whether row[x] is the trailing half of a wide glyph drawn
// just before it. A reserved cell whose lead was clipped away still takes
// its column.
func skip(row []cell.Cell, x int) bool {
	return row[x].IsReserved() && x > 0 && row[x-1].Width == 2
}

// glyphOf maps a cell to the rune written to the terminal. Control cells
// keep their position but are never sent raw.
func glyphOf(cl cell.Cell) rune {
	if cl.Glyph == 0 || cl.Control {
		return ' '
	}
	return cl.Glyph
}
