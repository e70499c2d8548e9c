package cell

import (
	"strconv"
	"strings"
)

var decorationCodes = [...]struct {
	d   Decoration
	on  string
	off string
}{
	{Bold, "1", "22"},
	{Dim, "2", "22"},
	{Italic, "3", "23"},
	{Underline, "4", "24"},
	{Blink, "5", "25"},
	{Invert, "7", "27"},
	{Strikethrough, "9", "29"},
}

// StyleToANSI converts a Style to a full SGR sequence, reset first.
func StyleToANSI(s Style) string {
	var b strings.Builder
	b.Grow(32)

	b.WriteString("\x1b[0")
	for _, dc := range decorationCodes {
		if s.Decoration&dc.d != 0 {
			b.WriteByte(';')
			b.WriteString(dc.on)
		}
	}
	writeColor(&b, s.Fg, true)
	writeColor(&b, s.Bg, false)
	b.WriteByte('m')
	return b.String()
}

// StyleToDeltaANSI returns the minimal SGR sequence to move from prev to next.
func StyleToDeltaANSI(prev, next Style) string {
	if prev == next {
		return ""
	}

	var codes []string
	turningOff := 0
	for _, dc := range decorationCodes {
		if prev.Decoration&dc.d != 0 && next.Decoration&dc.d == 0 {
			turningOff++
		}
	}

	// Several attributes going away at once: a reset is shorter.
	if turningOff > 1 {
		return StyleToANSI(next)
	}

	intensityReset := false
	for _, dc := range decorationCodes {
		if prev.Decoration&dc.d != 0 && next.Decoration&dc.d == 0 {
			if dc.off == "22" {
				if intensityReset {
					continue
				}
				intensityReset = true
			}
			codes = append(codes, dc.off)
		}
	}
	for _, dc := range decorationCodes {
		if next.Decoration&dc.d == 0 {
			continue
		}
		// 22 clears both bold and dim, so re-enable whichever survives.
		if prev.Decoration&dc.d == 0 || (intensityReset && dc.off == "22") {
			codes = append(codes, dc.on)
		}
	}

	if prev.Fg != next.Fg {
		codes = append(codes, colorCode(next.Fg, true))
	}
	if prev.Bg != next.Bg {
		codes = append(codes, colorCode(next.Bg, false))
	}
	if len(codes) == 0 {
		return ""
	}
	return "\x1b[" + strings.Join(codes, ";") + "m"
}

func writeColor(b *strings.Builder, c Color, fg bool) {
	if !c.IsSet() {
		return
	}
	b.WriteByte(';')
	b.WriteString(colorCode(c, fg))
}

func colorCode(c Color, fg bool) string {
	switch c.Type {
	case ColorIndexed:
		idx := c.Value
		switch {
		case idx < 8:
			if fg {
				return strconv.FormatUint(uint64(30+idx), 10)
			}
			return strconv.FormatUint(uint64(40+idx), 10)
		case idx < 16:
			if fg {
				return strconv.FormatUint(uint64(90+idx-8), 10)
			}
			return strconv.FormatUint(uint64(100+idx-8), 10)
		default:
			if fg {
				return "38;5;" + strconv.FormatUint(uint64(idx), 10)
			}
			return "48;5;" + strconv.FormatUint(uint64(idx), 10)
		}
	case ColorRGB:
		r := (c.Value >> 16) & 0xFF
		g := (c.Value >> 8) & 0xFF
		bv := c.Value & 0xFF
		prefix := "48;2;"
		if fg {
			prefix = "38;2;"
		}
		return prefix + strconv.FormatUint(uint64(r), 10) + ";" +
			strconv.FormatUint(uint64(g), 10) + ";" +
			strconv.FormatUint(uint64(bv), 10)
	default:
		if fg {
			return "39"
		}
		return "49"
	}
}
