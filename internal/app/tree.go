package app

import (
	"github.com/andyrewlee/cellframe/internal/config"
	"github.com/andyrewlee/cellframe/internal/demo"
	"github.com/andyrewlee/cellframe/internal/keymap"
	"github.com/andyrewlee/cellframe/internal/scheduler"
	"github.com/andyrewlee/cellframe/internal/segment"
	"github.com/andyrewlee/cellframe/internal/surface"
)

// tree is the demo layout: a spinner line above a framed, scrollable report.
type tree struct {
	root    *surface.Stack
	spinner *surface.Leaf
	report  *surface.Leaf
	frame   *surface.Frame
}

func buildTree(opts Options) (*tree, error) {
	spinner, err := surface.NewLeaf(demo.NewSpinner("composing"))
	if err != nil {
		return nil, err
	}
	report, err := surface.NewLeaf(demo.NewReport("Report", opts.Entries))
	if err != nil {
		return nil, err
	}
	frame, err := surface.NewFrame(report)
	if err != nil {
		return nil, err
	}
	frame.SetTitle(opts.Title)
	frame.SetMargin(surface.Insets{Left: 1, Right: 1})

	root := surface.NewStack()
	if _, err := root.Add(spinner); err != nil {
		return nil, err
	}
	if _, err := root.Add(frame); err != nil {
		return nil, err
	}
	return &tree{root: root, spinner: spinner, report: report, frame: frame}, nil
}

func (t *tree) attach(s *scheduler.Scheduler) {
	t.spinner.Attach(s)
	t.report.Attach(s)
}

func (t *tree) configure(cfg *config.Config, border surface.BorderStyle, keys keymap.KeyMap, ascii bool) {
	w := segment.NewWriter(cfg.TabWidth)
	opts := segment.RenderOptions{ASCII: ascii}
	for _, l := range []*surface.Leaf{t.spinner, t.report} {
		l.SetWriter(w)
		l.SetRenderOptions(opts)
	}
	t.frame.SetWriter(w)
	t.frame.SetBorder(border)
	t.frame.SetKeyMap(keys)
}

// frameTop is the canvas row where the frame starts.
func (t *tree) frameTop() int {
	return t.spinner.Size().Height
}

func (t *tree) dispose() {
	t.root.Dispose()
}
