package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/andyrewlee/cellframe/internal/keymap"
	"github.com/andyrewlee/cellframe/internal/perf"
)

var (
	colorMuted  = lipgloss.Color("#565f89")
	colorStatus = lipgloss.Color("#e0af68")
)

// View implements tea.Model.
func (a *App) View() tea.View {
	defer perf.Time("view")()

	var view tea.View
	view.AltScreen = true
	view.MouseMode = tea.MouseModeCellMotion

	if a.quitting {
		view.SetContent("")
		return view
	}
	if !a.ready {
		view.SetContent("Loading...")
		return view
	}

	body := a.markFrame(a.currentFrame())
	content := body + "\n" + a.statusLine()
	if a.zone != nil {
		content = a.zone.Scan(content)
	}
	view.SetContent(content)
	return view
}

// markFrame wraps the rows the frame occupies in a zone so wheel events
// can be hit-tested against it.
func (a *App) markFrame(frame string, top int) string {
	if a.zone == nil {
		return frame
	}
	lines := strings.Split(frame, "\n")
	if top >= len(lines) {
		return frame
	}
	marked := a.zone.Mark(frameZoneID, strings.Join(lines[top:], "\n"))
	if top == 0 {
		return marked
	}
	return strings.Join(lines[:top], "\n") + "\n" + marked
}

func (a *App) statusLine() string {
	hint := lipgloss.NewStyle().Foreground(colorMuted).Render(keymap.Hint(a.keys.ShortHelp()))
	line := hint
	if a.status != "" {
		line = lipgloss.NewStyle().Foreground(colorStatus).Render(a.status) + "  " + hint
	}
	return ansi.Truncate(line, a.width, "…")
}
