package app

import (
	"github.com/andyrewlee/cellframe/internal/surface"
)

// Snapshot lays the tree out at width x height and returns one composed
// frame. With plain set the output carries no escape sequences.
func (a *App) Snapshot(width, height int, plain bool) string {
	width, height = max(1, width), max(1, height)
	var out string
	a.sched.Do(func() {
		a.canvas.Resize(width, height)
		a.tree.root.Resize(surface.Fixed(surface.Size{Width: width, Height: height}))
		a.canvas.Flush(a.tree.root)
		if plain {
			out = a.canvas.PlainText()
			return
		}
		out = a.canvas.Render()
	})
	return out
}
