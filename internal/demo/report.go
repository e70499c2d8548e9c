// Package demo holds sample producers used by the reference host and the
// headless renderer.
package demo

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/cellframe/internal/segment"
)

var (
	colorHeading = lipgloss.Color("#7aa2f7")
	colorMuted   = lipgloss.Color("#565f89")
	colorAccent  = lipgloss.Color("#9ece6a")
)

// Report is a titled list of entries rendered through lipgloss and decoded
// back into segments.
type Report struct {
	Heading string
	Entries []string
}

// NewReport builds a report with n numbered entries.
func NewReport(heading string, n int) *Report {
	r := &Report{Heading: heading}
	for i := 0; i < n; i++ {
		r.Entries = append(r.Entries, fmt.Sprintf("entry %d", i+1))
	}
	return r
}

func (r *Report) lines(ascii bool) []string {
	bullet := "•"
	if ascii {
		bullet = "*"
	}
	heading := lipgloss.NewStyle().Bold(true).Foreground(colorHeading)
	index := lipgloss.NewStyle().Foreground(colorMuted)
	mark := lipgloss.NewStyle().Foreground(colorAccent)

	out := make([]string, 0, len(r.Entries)+1)
	if r.Heading != "" {
		out = append(out, heading.Render(r.Heading))
	}
	digits := len(fmt.Sprint(len(r.Entries)))
	for i, e := range r.Entries {
		out = append(out, fmt.Sprintf("%s %s %s",
			index.Render(fmt.Sprintf("%*d", digits, i+1)), mark.Render(bullet), e))
	}
	return out
}

// Measure reports the widest line.
func (r *Report) Measure(maxWidth int) segment.Measurement {
	w := 0
	for _, l := range r.lines(false) {
		w = max(w, ansi.StringWidth(l))
	}
	if maxWidth >= 0 && w > maxWidth {
		w = maxWidth
	}
	return segment.Measurement{Min: min(w, 1), Max: w}
}

// Render emits every entry; the frame around it does the scrolling.
func (r *Report) Render(opts segment.RenderOptions, maxWidth int) []segment.Segment {
	lines := r.lines(opts.ASCII)
	for i, l := range lines {
		lines[i] = ansi.Truncate(l, maxWidth, "")
	}
	return segment.FromANSI(strings.Join(lines, "\n"))
}
