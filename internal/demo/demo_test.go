package demo

import (
	"strings"
	"testing"
	"time"

	"github.com/andyrewlee/cellframe/internal/segment"
)

func plain(segs []segment.Segment) string {
	var b strings.Builder
	for _, s := range segs {
		if !s.Control {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

func TestReportRendersEntries(t *testing.T) {
	r := NewReport("Queue", 12)
	got := plain(r.Render(segment.RenderOptions{}, 80))
	lines := strings.Split(got, "\n")
	if len(lines) != 13 {
		t.Fatalf("expected 13 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "Queue" {
		t.Fatalf("expected heading, got %q", lines[0])
	}
	if lines[1] != " 1 • entry 1" {
		t.Fatalf("expected padded index, got %q", lines[1])
	}
}

func TestReportASCIIAndTruncation(t *testing.T) {
	r := NewReport("", 1)
	got := plain(r.Render(segment.RenderOptions{ASCII: true}, 5))
	if got != "1 * e" {
		t.Fatalf("expected truncated ascii line, got %q", got)
	}
	if m := r.Measure(5); m.Max != 5 {
		t.Fatalf("expected measure capped at 5, got %+v", m)
	}
}

func TestSpinnerAdvance(t *testing.T) {
	s := NewSpinner("working")
	if s.Advance(spinnerInterval / 2) {
		t.Fatalf("half a frame should not change the spinner")
	}
	if !s.Advance(spinnerInterval / 2) {
		t.Fatalf("expected frame change after a full interval")
	}
	if s.Frame() != 1 {
		t.Fatalf("expected frame 1, got %d", s.Frame())
	}
	s.Advance(3*spinnerInterval + time.Millisecond)
	if s.Frame() != 4 {
		t.Fatalf("expected frame 4, got %d", s.Frame())
	}
	if got := plain(s.Render(segment.RenderOptions{ASCII: true}, 20)); got != "| working" {
		t.Fatalf("expected ascii frame, got %q", got)
	}
}
