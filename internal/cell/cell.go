// Package cell defines the atomic unit of a terminal grid: a Character
// (glyph plus style) wrapped in a Cell that also records its column width.
package cell

import (
	"strconv"
	"strings"
)

// ColorType tells how Color.Value is interpreted.
type ColorType uint8

const (
	ColorDefault ColorType = iota
	ColorIndexed
	ColorRGB
)

// Color is an optional terminal color. The zero value means "unset".
type Color struct {
	Type  ColorType
	Value uint32 // Indexed: 0-255, RGB: 0xRRGGBB
}

// Indexed returns a palette color.
func Indexed(idx uint8) Color {
	return Color{Type: ColorIndexed, Value: uint32(idx)}
}

// RGB returns a truecolor value.
func RGB(r, g, b uint8) Color {
	return Color{Type: ColorRGB, Value: uint32(r)<<16 | uint32(g)<<8 | uint32(b)}
}

// HexColor converts a #RRGGBB string to a Color. Anything malformed
// yields the default color.
func HexColor(hex string) Color {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return Color{}
	}
	value, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}
	}
	return Color{Type: ColorRGB, Value: uint32(value)}
}

// IsSet reports whether the color overrides the terminal default.
func (c Color) IsSet() bool {
	return c.Type != ColorDefault
}

// Decoration is a set of text attributes.
type Decoration uint8

const (
	Bold Decoration = 1 << iota
	Dim
	Italic
	Underline
	Invert
	Strikethrough
	Blink
)

// Has reports whether all bits of d2 are set in d.
func (d Decoration) Has(d2 Decoration) bool {
	return d&d2 == d2
}

// Style is the foreground/background/decoration triplet shared by
// characters and styled segments.
type Style struct {
	Fg         Color
	Bg         Color
	Decoration Decoration
}

// Character is an immutable glyph with its style. Glyph 0 means "no glyph".
type Character struct {
	Glyph rune
	Style
	Control bool
}

// Cell is a single addressable grid position.
type Cell struct {
	Character
	Width int8 // 1 normal, 2 leading half of a wide glyph, 0 reserved trailing half
}

// Empty returns the canonical empty cell.
func Empty() Cell {
	return Cell{Width: 1}
}

// New wraps a character in a width-1 cell.
func New(ch Character) Cell {
	return Cell{Character: ch, Width: 1}
}

// IsEmpty reports whether the cell carries no glyph and is not reserved
// by a wide glyph to its left.
func (c Cell) IsEmpty() bool {
	return c.Glyph == 0 && c.Width != 0 && !c.Control
}

// IsReserved reports whether the cell is the trailing half of a wide glyph.
func (c Cell) IsReserved() bool {
	return c.Width == 0
}

// Reserved returns the trailing-half marker carrying the given style.
func Reserved(ch Character) Cell {
	ch.Glyph = 0
	ch.Control = false
	return Cell{Character: ch}
}

// MakeBlankLine creates a row of empty cells.
func MakeBlankLine(width int) []Cell {
	if width < 0 {
		width = 0
	}
	line := make([]Cell, width)
	for i := range line {
		line[i] = Empty()
	}
	return line
}
