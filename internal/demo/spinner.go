package demo

import (
	"time"

	"charm.land/lipgloss/v2"

	"github.com/andyrewlee/cellframe/internal/segment"
)

// spinnerInterval is how long each frame stays on screen.
const spinnerInterval = 80 * time.Millisecond

var (
	spinnerFrames      = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinnerFramesASCII = []string{"|", "/", "-", "\\"}
)

// Spinner is a one-line animated status producer. The scheduler advances
// it on every tick.
type Spinner struct {
	Label   string
	frame   int
	elapsed time.Duration
}

// NewSpinner returns a spinner showing label next to the animation.
func NewSpinner(label string) *Spinner {
	return &Spinner{Label: label}
}

// Frame returns the current animation frame index.
func (s *Spinner) Frame() int { return s.frame }

// Advance moves the animation forward. It reports true when the visible
// frame changed.
func (s *Spinner) Advance(elapsed time.Duration) bool {
	s.elapsed += elapsed
	steps := int(s.elapsed / spinnerInterval)
	if steps == 0 {
		return false
	}
	s.elapsed -= time.Duration(steps) * spinnerInterval
	s.frame += steps
	return true
}

func (s *Spinner) text(ascii bool) string {
	frames := spinnerFrames
	if ascii {
		frames = spinnerFramesASCII
	}
	glyph := lipgloss.NewStyle().Foreground(colorAccent).Render(frames[s.frame%len(frames)])
	if s.Label == "" {
		return glyph
	}
	return glyph + " " + s.Label
}

// Measure reports the width of glyph plus label.
func (s *Spinner) Measure(maxWidth int) segment.Measurement {
	w := lipgloss.Width(s.text(false))
	if maxWidth >= 0 && w > maxWidth {
		w = maxWidth
	}
	return segment.Measurement{Min: min(w, 1), Max: w}
}

// Render returns the current frame.
func (s *Spinner) Render(opts segment.RenderOptions, _ int) []segment.Segment {
	return segment.FromANSI(s.text(opts.ASCII))
}
