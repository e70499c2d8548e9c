package segment

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/cellframe/internal/cell"
)

// FromANSI decodes an SGR-styled string, such as lipgloss output, into
// segments. SGR sequences update the running style; any other escape
// sequence becomes a control segment.
func FromANSI(s string) []Segment {
	if s == "" {
		return nil
	}

	p := ansi.GetParser()
	defer ansi.PutParser(p)

	var (
		out   []Segment
		run   strings.Builder
		style Style
		state byte
	)
	flush := func() {
		if run.Len() == 0 {
			return
		}
		out = append(out, Segment{Text: run.String(), Style: style})
		run.Reset()
	}

	for lineIdx, line := range strings.Split(s, "\n") {
		if lineIdx > 0 {
			run.WriteByte('\n')
		}
		for len(line) > 0 {
			seq, width, n, newState := ansi.DecodeSequence(line, state, p)
			if n == 0 {
				break
			}
			switch {
			case width > 0 || seq == "\t" || seq == "\r" || !isControl(seq):
				run.WriteString(seq)
			case isSGR(seq):
				flush()
				style = applySGR(style, p.Params())
			case seq != "":
				flush()
				out = append(out, ControlCode(seq))
			}
			line = line[n:]
			state = newState
		}
	}
	flush()
	return out
}

func isControl(seq string) bool {
	return seq != "" && (seq[0] < 0x20 || seq[0] == 0x7f)
}

func isSGR(seq string) bool {
	return strings.HasPrefix(seq, "\x1b[") && strings.HasSuffix(seq, "m")
}

// applySGR updates the style from SGR parameters.
func applySGR(style Style, params ansi.Params) Style {
	if len(params) == 0 {
		return Style{}
	}

	for i := 0; i < len(params); i++ {
		p, _, _ := params.Param(i, 0)
		switch {
		case p == 0:
			style = Style{}
		case p == 1:
			style.Decoration |= cell.Bold
		case p == 2:
			style.Decoration |= cell.Dim
		case p == 3:
			style.Decoration |= cell.Italic
		case p == 4:
			style.Decoration |= cell.Underline
		case p == 5:
			style.Decoration |= cell.Blink
		case p == 7:
			style.Decoration |= cell.Invert
		case p == 9:
			style.Decoration |= cell.Strikethrough
		case p == 22:
			style.Decoration &^= cell.Bold | cell.Dim
		case p == 23:
			style.Decoration &^= cell.Italic
		case p == 24:
			style.Decoration &^= cell.Underline
		case p == 25:
			style.Decoration &^= cell.Blink
		case p == 27:
			style.Decoration &^= cell.Invert
		case p == 29:
			style.Decoration &^= cell.Strikethrough
		case p >= 30 && p <= 37:
			style.Fg = cell.Indexed(uint8(p - 30))
		case p == 38:
			var c cell.Color
			c, i = extendedColor(params, i)
			style.Fg = c
		case p == 39:
			style.Fg = cell.Color{}
		case p >= 40 && p <= 47:
			style.Bg = cell.Indexed(uint8(p - 40))
		case p == 48:
			var c cell.Color
			c, i = extendedColor(params, i)
			style.Bg = c
		case p == 49:
			style.Bg = cell.Color{}
		case p >= 90 && p <= 97:
			style.Fg = cell.Indexed(uint8(p - 90 + 8))
		case p >= 100 && p <= 107:
			style.Bg = cell.Indexed(uint8(p - 100 + 8))
		}
	}
	return style
}

// extendedColor parses the 38/48 forms "5;n" and "2;r;g;b" following
// index i and returns the color plus the index of the last consumed param.
func extendedColor(params ansi.Params, i int) (cell.Color, int) {
	if i+2 >= len(params) {
		return cell.Color{}, i
	}
	mode, _, _ := params.Param(i+1, 0)
	switch {
	case mode == 5:
		idx, _, _ := params.Param(i+2, 0)
		return cell.Indexed(uint8(idx)), i + 2
	case mode == 2 && i+4 < len(params):
		rv, _, _ := params.Param(i+2, 0)
		gv, _, _ := params.Param(i+3, 0)
		bv, _, _ := params.Param(i+4, 0)
		return cell.RGB(uint8(rv), uint8(gv), uint8(bv)), i + 4
	}
	return cell.Color{}, i
}
