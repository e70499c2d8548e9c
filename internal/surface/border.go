package surface

import (
	"fmt"
	"strings"
)

// BorderStyle selects one of the fixed border glyph tables.
type BorderStyle int

const (
	BorderNone BorderStyle = iota
	BorderASCII
	BorderDouble
	BorderHeavy
	BorderRounded
	BorderSquare
)

// BorderPart names one of the eight glyph slots of a border.
type BorderPart int

const (
	PartTop BorderPart = iota
	PartBottom
	PartLeft
	PartRight
	PartTopLeft
	PartTopRight
	PartBottomLeft
	PartBottomRight
)

var borderTables = [...][8]rune{
	BorderNone:    {},
	BorderASCII:   {'-', '-', '|', '|', '+', '+', '+', '+'},
	BorderDouble:  {'═', '═', '║', '║', '╔', '╗', '╚', '╝'},
	BorderHeavy:   {'━', '━', '┃', '┃', '┏', '┓', '┗', '┛'},
	BorderRounded: {'─', '─', '│', '│', '╭', '╮', '╰', '╯'},
	BorderSquare:  {'─', '─', '│', '│', '┌', '┐', '└', '┘'},
}

var borderNames = [...]string{
	BorderNone:    "none",
	BorderASCII:   "ascii",
	BorderDouble:  "double",
	BorderHeavy:   "heavy",
	BorderRounded: "rounded",
	BorderSquare:  "square",
}

// ParseBorder maps a style name to a BorderStyle.
func ParseBorder(name string) (BorderStyle, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range borderNames {
		if n == name {
			return BorderStyle(i), nil
		}
	}
	return BorderNone, fmt.Errorf("%w: %q", ErrUnknownBorder, name)
}

func (b BorderStyle) String() string {
	if b < 0 || int(b) >= len(borderNames) {
		return "unknown"
	}
	return borderNames[b]
}

// Glyph returns the rune drawn for part, or 0 for BorderNone.
func (b BorderStyle) Glyph(part BorderPart) rune {
	if b < 0 || int(b) >= len(borderTables) || part < 0 || part > PartBottomRight {
		return 0
	}
	return borderTables[b][part]
}

// Visible reports whether the style draws anything.
func (b BorderStyle) Visible() bool {
	return b != BorderNone && b.Glyph(PartTop) != 0
}

// Placement selects which edges of a frame carry a border.
type Placement uint8

const (
	PlaceTop Placement = 1 << iota
	PlaceBottom
	PlaceLeft
	PlaceRight

	PlaceAll = PlaceTop | PlaceBottom | PlaceLeft | PlaceRight
)

// Has reports whether every edge in q is in p.
func (p Placement) Has(q Placement) bool {
	return p&q == q
}
