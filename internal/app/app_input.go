package app

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	zone "github.com/lrstanley/bubblezone"

	"github.com/andyrewlee/cellframe/internal/logging"
	"github.com/andyrewlee/cellframe/internal/perf"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit
	case key.Matches(msg, a.keys.Copy):
		a.copyScreen()
		return nil
	}

	handled := false
	a.sched.Do(func() {
		handled = a.tree.root.OnInput(msg)
		if handled {
			a.flushLocked()
		}
	})
	if handled {
		perf.Count("input_handled", 1)
	}
	return nil
}

// handleWheel scrolls the frame when the pointer is over it.
func (a *App) handleWheel(msg tea.MouseWheelMsg) {
	m := msg.Mouse()
	if a.zone != nil && !inZone(a.zone.Get(frameZoneID), m.X, m.Y) {
		return
	}
	a.sched.Do(func() {
		if a.tree.frame.OnInput(msg) {
			a.flushLocked()
		}
	})
}

// inZone hit-tests a scanned zone. Zones span from the start marker to the
// end marker, so a multi-line zone covers whole rows in between.
func inZone(z *zone.ZoneInfo, x, y int) bool {
	if z == nil || z.IsZero() {
		return false
	}
	if y < z.StartY || y > z.EndY {
		return false
	}
	if z.StartY == z.EndY {
		return x >= z.StartX && x <= z.EndX
	}
	return true
}

func (a *App) copyScreen() {
	var text string
	a.sched.Do(func() { text = a.canvas.PlainText() })
	text = trimTrailing(text)
	if err := clipboardWrite(text); err != nil {
		logging.Warn("copy failed: %v", err)
		a.status = "copy failed: " + err.Error()
		return
	}
	a.status = fmt.Sprintf("copied %d lines", strings.Count(text, "\n")+1)
}

// trimTrailing drops trailing blanks on every line.
func trimTrailing(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}
