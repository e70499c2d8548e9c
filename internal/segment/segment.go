// Package segment replays producer-supplied styled text into grid buffers.
//
// A producer turns widget state into an ordered, finite list of Segments.
// The Writer walks that list with a virtual cursor, expanding tabs,
// normalizing line breaks and laying out wide glyphs, and stores the
// result cell by cell. Anything that would land outside the target
// buffer is dropped.
package segment

import "github.com/andyrewlee/cellframe/internal/cell"

// Style is the fg/bg/decoration triplet a segment is drawn with.
type Style = cell.Style

// Segment is a run of text in one style. Control segments carry terminal
// control codes that still occupy one cell per rune so downstream readers
// can find them.
type Segment struct {
	Text    string
	Style   Style
	Scope   string // optional named style, resolved by the writer's styleOf
	Control bool
}

// Plain returns an unstyled text segment.
func Plain(text string) Segment {
	return Segment{Text: text}
}

// Styled returns a text segment drawn with style.
func Styled(text string, style Style) Segment {
	return Segment{Text: text, Style: style}
}

// Scoped returns a text segment whose style is looked up by name at write time.
func Scoped(text, scope string) Segment {
	return Segment{Text: text, Scope: scope}
}

// ControlCode returns a control-code segment.
func ControlCode(code string) Segment {
	return Segment{Text: code, Control: true}
}

// Measurement is the width range a producer can lay itself out in.
type Measurement struct {
	Min int
	Max int
}

// RenderOptions carries host constraints into a render call.
type RenderOptions struct {
	// Height is the number of rows the caller can show; 0 means unbounded.
	Height int
	// ASCII asks producers to avoid box drawing and other non-ASCII glyphs.
	ASCII bool
}

// Producer turns widget state into segments. Render must be restartable
// and deterministic: the same state and maxWidth yield the same stream.
type Producer interface {
	Measure(maxWidth int) Measurement
	Render(opts RenderOptions, maxWidth int) []Segment
}

// Text is a Producer over a fixed list of segments.
type Text []Segment

// Lines builds a Text with one plain segment per line.
func Lines(lines ...string) Text {
	t := make(Text, 0, len(lines)*2)
	for i, l := range lines {
		if i > 0 {
			t = append(t, Plain("\n"))
		}
		t = append(t, Plain(l))
	}
	return t
}

// Measure reports the widest line, capped at maxWidth.
func (t Text) Measure(maxWidth int) Measurement {
	w, _ := NewWriter(DefaultTabWidth).Extent(t)
	if maxWidth >= 0 && w > maxWidth {
		w = maxWidth
	}
	return Measurement{Min: w, Max: w}
}

// Render returns the segments unchanged.
func (t Text) Render(RenderOptions, int) []Segment {
	return t
}
