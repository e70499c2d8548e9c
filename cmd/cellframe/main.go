package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/andyrewlee/cellframe/internal/app"
	"github.com/andyrewlee/cellframe/internal/config"
	"github.com/andyrewlee/cellframe/internal/logging"
	"github.com/andyrewlee/cellframe/internal/surface"
)

// Version info set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	defaultHeadlessWidth  = 80
	defaultHeadlessHeight = 24
)

type rootOptions struct {
	configPath string
	border     string
	tick       time.Duration
	headless   bool
	width      int
	height     int
	plain      bool
	entries    int
	title      string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var opts rootOptions
	cmd := &cobra.Command{
		Use:           "cellframe",
		Short:         "Compose framed, scrollable cell surfaces in the terminal",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return err
			}
			stdinTTY := term.IsTerminal(os.Stdin.Fd())
			stdoutTTY := term.IsTerminal(os.Stdout.Fd())
			if opts.headless || !shouldLaunchTUI(stdinTTY, stdoutTTY) {
				if !cmd.Flags().Changed("plain") {
					opts.plain = !stdoutTTY
				}
				return runHeadless(cmd.OutOrStdout(), cfg, opts, stdoutTTY)
			}
			return runTUI(cmd.Context(), cfg, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "config file (default ~/.cellframe/config.json)")
	f.StringVar(&opts.border, "border", "", "frame border: none, ascii, double, heavy, rounded, square")
	f.DurationVar(&opts.tick, "tick", 0, "repaint tick interval (e.g. 100ms)")
	f.BoolVar(&opts.headless, "headless", false, "print one composed frame and exit")
	f.IntVar(&opts.width, "width", 0, "headless width (default terminal width or 80)")
	f.IntVar(&opts.height, "height", 0, "headless height (default terminal height or 24)")
	f.BoolVar(&opts.plain, "plain", false, "headless output without escape sequences")
	f.IntVar(&opts.entries, "entries", 200, "number of report entries")
	f.StringVar(&opts.title, "title", "cellframe", "frame title")
	return cmd
}

func shouldLaunchTUI(stdinIsTTY, stdoutIsTTY bool) bool {
	return stdinIsTTY && stdoutIsTTY
}

// loadConfig reads the config file and applies flag overrides on top.
func loadConfig(opts rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		abs, absErr := filepath.Abs(opts.configPath)
		if absErr != nil {
			return nil, absErr
		}
		paths := config.PathsIn(filepath.Dir(abs))
		paths.ConfigPath = abs
		cfg, err = config.LoadFrom(paths)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if opts.border != "" {
		if _, err := surface.ParseBorder(opts.border); err != nil {
			return nil, err
		}
		cfg.Border = opts.border
	}
	if opts.tick > 0 {
		cfg.TickIntervalMs = int(opts.tick / time.Millisecond)
		if cfg.TickIntervalMs < 1 {
			cfg.TickIntervalMs = 1
		}
	}
	return cfg, nil
}

func appOptions(opts rootOptions) app.Options {
	return app.Options{Title: opts.title, Entries: opts.entries}
}

func runHeadless(w io.Writer, cfg *config.Config, opts rootOptions, stdoutTTY bool) error {
	width, height := opts.width, opts.height
	if stdoutTTY && (width <= 0 || height <= 0) {
		if tw, th, err := term.GetSize(os.Stdout.Fd()); err == nil {
			width = pick(width, tw)
			height = pick(height, th)
		}
	}
	width = pick(width, defaultHeadlessWidth)
	height = pick(height, defaultHeadlessHeight)

	a, err := app.New(cfg, appOptions(opts))
	if err != nil {
		return err
	}
	defer a.Shutdown()
	_, err = fmt.Fprintln(w, a.Snapshot(width, height, opts.plain))
	return err
}

func pick(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func runTUI(ctx context.Context, cfg *config.Config, opts rootOptions) error {
	if err := logging.Initialize(cfg.Paths.LogsDir, logging.ParseLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not initialize logging: %v\n", err)
	}
	defer logging.Close()
	logging.Info("Starting cellframe %s", version)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(cfg, appOptions(opts))
	if err != nil {
		logging.Error("Failed to initialize app: %v", err)
		return err
	}
	p := tea.NewProgram(
		a,
		tea.WithContext(ctx),
		tea.WithFilter(mouseEventFilter),
	)
	a.SetMsgSender(p.Send)
	a.Start(ctx)
	defer a.Shutdown()

	if _, err := p.Run(); err != nil {
		logging.Error("App exited with error: %v", err)
		return err
	}
	logging.Info("cellframe shutdown complete")
	return nil
}

var lastMouseWheelEvent time.Time

// mouseEventFilter throttles wheel bursts so a fast scroll does not queue
// more passes than the scheduler can show.
func mouseEventFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.MouseWheelMsg); ok {
		now := time.Now()
		if now.Sub(lastMouseWheelEvent) < 15*time.Millisecond {
			return nil
		}
		lastMouseWheelEvent = now
	}
	return msg
}
