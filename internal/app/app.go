// Package app hosts a composed surface tree inside a bubbletea program.
package app

import (
	"context"
	"sync"

	tea "charm.land/bubbletea/v2"
	zone "github.com/lrstanley/bubblezone"

	"github.com/andyrewlee/cellframe/internal/compositor"
	"github.com/andyrewlee/cellframe/internal/config"
	"github.com/andyrewlee/cellframe/internal/keymap"
	"github.com/andyrewlee/cellframe/internal/logging"
	"github.com/andyrewlee/cellframe/internal/scheduler"
	"github.com/andyrewlee/cellframe/internal/supervisor"
	"github.com/andyrewlee/cellframe/internal/surface"
)

const frameZoneID = "cellframe-frame"

// Options tweak the demo tree beyond what the config file covers.
type Options struct {
	Title   string
	Entries int
	// ASCII forces ASCII glyphs in producers regardless of border style.
	ASCII bool
}

// repaintMsg tells the event loop a new frame is ready.
type repaintMsg struct{}

// configReloadedMsg carries the result of a config file reload.
type configReloadedMsg struct {
	cfg *config.Config
	err error
}

// App is the bubbletea model that owns the scheduler, canvas and tree.
type App struct {
	cfg   *config.Config
	opts  Options
	keys  keymap.KeyMap
	zone  *zone.Manager
	sched *scheduler.Scheduler

	// Guarded by the scheduler lock.
	canvas *compositor.Canvas
	tree   *tree

	// frameMu guards the last rendered frame handed to View.
	frameMu  sync.Mutex
	frame    string
	frameTop int

	repaint chan struct{}
	done    chan struct{}
	stop    sync.Once
	cancel  context.CancelFunc
	workers *supervisor.Supervisor
	send    func(tea.Msg)

	width    int
	height   int
	ready    bool
	quitting bool
	status   string
}

// New builds the app and its surface tree from cfg.
func New(cfg *config.Config, opts Options) (*App, error) {
	if opts.Title == "" {
		opts.Title = "cellframe"
	}
	if opts.Entries <= 0 {
		opts.Entries = 200
	}
	a := &App{
		cfg:     cfg,
		opts:    opts,
		keys:    keymap.New(cfg.KeyMap),
		sched:   scheduler.New(cfg.TickInterval()),
		canvas:  compositor.NewCanvas(1, 1),
		repaint: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	t, err := buildTree(opts)
	if err != nil {
		return nil, err
	}
	a.tree = t
	a.sched.Do(func() {
		a.tree.attach(a.sched)
		a.applyConfigLocked(cfg)
	})
	a.sched.SetOnFrame(a.onFrame)
	return a, nil
}

// SetMsgSender installs the program's Send for messages produced off the
// event loop.
func (a *App) SetMsgSender(send func(tea.Msg)) {
	a.send = send
}

// Start launches the scheduler and, when a config path is known, a
// supervised config watcher.
func (a *App) Start(ctx context.Context) {
	ctx, a.cancel = context.WithCancel(ctx)
	a.zone = zone.New()
	a.sched.Start(ctx)

	if a.cfg.Paths == nil {
		return
	}
	a.workers = supervisor.New(ctx)
	a.workers.SetErrorHandler(func(name string, err error) {
		logging.Warn("%s: %v", name, err)
	})
	a.workers.Start("config-watcher", a.watchConfig, supervisor.WithMaxRestarts(5))
}

func (a *App) watchConfig(ctx context.Context) error {
	w, err := config.NewWatcher(a.cfg.Paths, a.onConfigReload)
	if err != nil {
		return err
	}
	defer w.Close()
	return w.Run(ctx)
}

// Shutdown stops background work and releases the surface tree.
func (a *App) Shutdown() {
	a.stop.Do(func() {
		close(a.done)
		if a.cancel != nil {
			a.cancel()
		}
		a.workers.Stop()
		a.sched.Stop()
		a.sched.Do(a.tree.dispose)
		if a.zone != nil {
			a.zone.Close()
		}
	})
}

func (a *App) onConfigReload(cfg *config.Config, err error) {
	if a.send != nil {
		a.send(configReloadedMsg{cfg: cfg, err: err})
	}
}

// onFrame runs under the scheduler lock after a pass that rendered.
func (a *App) onFrame() {
	a.flushLocked()
	select {
	case a.repaint <- struct{}{}:
	default:
	}
}

// flushLocked copies the tree into the canvas and snapshots the output.
// The caller must hold the scheduler lock.
func (a *App) flushLocked() {
	a.canvas.Flush(a.tree.root)
	out := a.canvas.Render()
	top := a.tree.frameTop()

	a.frameMu.Lock()
	a.frame = out
	a.frameTop = top
	a.frameMu.Unlock()
}

func (a *App) currentFrame() (string, int) {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()
	return a.frame, a.frameTop
}

// waitRepaint blocks until the scheduler produced a frame.
func (a *App) waitRepaint() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-a.repaint:
			return repaintMsg{}
		case <-a.done:
			return nil
		}
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return a.waitRepaint()
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		a.ready = true
	case tea.KeyPressMsg:
		return a, a.handleKey(msg)
	case tea.MouseWheelMsg:
		a.handleWheel(msg)
	case repaintMsg:
		return a, a.waitRepaint()
	case configReloadedMsg:
		a.handleReload(msg)
	}
	return a, nil
}

// resize lays the tree out for a terminal of width x height. The last row
// belongs to the status line.
func (a *App) resize(width, height int) {
	a.width, a.height = max(1, width), max(1, height)
	body := surface.Size{Width: a.width, Height: max(1, a.height-1)}
	a.sched.Do(func() {
		a.canvas.Resize(body.Width, body.Height)
		a.tree.root.Resize(surface.Fixed(body))
		a.flushLocked()
	})
}

func (a *App) handleReload(msg configReloadedMsg) {
	if msg.err != nil {
		logging.Warn("config reload failed: %v", msg.err)
		a.status = "config error: " + msg.err.Error()
		return
	}
	a.cfg = msg.cfg
	a.keys = keymap.New(msg.cfg.KeyMap)
	a.sched.Do(func() {
		a.applyConfigLocked(msg.cfg)
		if a.ready {
			body := surface.Size{Width: a.width, Height: max(1, a.height-1)}
			a.tree.root.Resize(surface.Fixed(body))
			a.flushLocked()
		}
	})
	a.status = "config reloaded"
	logging.Info("config reloaded from %s", msg.cfg.Paths.ConfigPath)
}

// applyConfigLocked pushes cfg into the tree and canvas. The caller must
// hold the scheduler lock.
func (a *App) applyConfigLocked(cfg *config.Config) {
	logging.SetLevel(logging.ParseLevel(cfg.LogLevel))
	a.canvas.SetPlaceholder(cfg.PlaceholderCell())

	border, err := surface.ParseBorder(cfg.Border)
	if err != nil {
		logging.Warn("ignoring border %q: %v", cfg.Border, err)
		border = a.tree.frame.Border()
	}
	a.tree.configure(cfg, border, keymap.New(cfg.KeyMap), a.opts.ASCII || border == surface.BorderASCII)
}
