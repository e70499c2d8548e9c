// Package grid holds the rectangular cell storage every surface renders into.
package grid

import (
	"strings"

	"github.com/andyrewlee/cellframe/internal/cell"
)

// Buffer is a resizable width x height array of cells. Reads outside the
// buffer return the empty cell; writes outside it are dropped.
type Buffer struct {
	width  int
	height int
	cells  [][]cell.Cell // [row][col]
}

// NewBuffer creates a buffer of empty cells. Negative sizes clamp to zero.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Width returns the column count.
func (b *Buffer) Width() int { return b.width }

// Height returns the row count.
func (b *Buffer) Height() int { return b.height }

// Resize sets the dimensions and clears every cell. Content is not
// retained across resizes, so resizing twice to the same size is the
// same as resizing once.
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == b.width && height == b.height && b.cells != nil {
		b.Clear()
		return
	}
	rows := make([][]cell.Cell, height)
	for y := range rows {
		rows[y] = cell.MakeBlankLine(width)
	}
	b.width = width
	b.height = height
	b.cells = rows
}

// Clear resets every cell to empty.
func (b *Buffer) Clear() {
	b.Fill(cell.Empty())
}

// Fill sets every cell to c.
func (b *Buffer) Fill(c cell.Cell) {
	for y := range b.cells {
		row := b.cells[y]
		for x := range row {
			row[x] = c
		}
	}
}

// InBounds reports whether (x, y) addresses a cell.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// At returns the cell at (x, y), or the empty cell when out of range.
func (b *Buffer) At(x, y int) cell.Cell {
	if !b.InBounds(x, y) {
		return cell.Empty()
	}
	return b.cells[y][x]
}

// Set writes a cell if within bounds.
func (b *Buffer) Set(x, y int, c cell.Cell) {
	if !b.InBounds(x, y) {
		return
	}
	b.cells[y][x] = c
}

// Row returns the cells of row y. The slice aliases the buffer; callers
// must not keep it across a Resize.
func (b *Buffer) Row(y int) []cell.Cell {
	if y < 0 || y >= b.height {
		return nil
	}
	return b.cells[y]
}

// Equal reports whether two buffers have the same size and cells.
func (b *Buffer) Equal(o *Buffer) bool {
	if b.width != o.width || b.height != o.height {
		return false
	}
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if b.cells[y][x] != o.cells[y][x] {
				return false
			}
		}
	}
	return true
}

// String returns the glyphs as plain text, one line per row, with empty
// cells rendered as spaces and reserved halves skipped.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow((b.width + 1) * b.height)
	for y := 0; y < b.height; y++ {
		for _, c := range b.cells[y] {
			if c.IsReserved() {
				continue
			}
			if c.Glyph == 0 {
				sb.WriteByte(' ')
				continue
			}
			sb.WriteRune(c.Glyph)
		}
		if y < b.height-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
