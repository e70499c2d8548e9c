package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/andyrewlee/cellframe/internal/logging"
)

const watcherDebounce = 150 * time.Millisecond

// Watcher reloads the config file whenever it changes on disk and hands
// the result to a callback. Bursts of events collapse into one reload.
type Watcher struct {
	watcher  *fsnotify.Watcher
	paths    *Paths
	path     string
	onReload func(*Config, error)
	debounce time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	closed    bool
	closeOnce sync.Once
}

// NewWatcher watches the directory holding paths.ConfigPath. The directory
// is created if missing so editors that replace the file are still seen.
func NewWatcher(paths *Paths, onReload func(*Config, error)) (*Watcher, error) {
	dir := filepath.Dir(paths.ConfigPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &Watcher{
		watcher:  fw,
		paths:    paths,
		path:     filepath.Clean(paths.ConfigPath),
		onReload: onReload,
		debounce: watcherDebounce,
	}, nil
}

// Run delivers reloads until ctx is done, the watcher is closed or
// fsnotify reports an error.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.isConfigEvent(event) {
				w.scheduleReload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("config watcher: %w", err)
		}
	}
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		if w.timer != nil {
			w.timer.Stop()
			w.timer = nil
		}
		w.mu.Unlock()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) isConfigEvent(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) != 0
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.fire)
	} else {
		w.timer.Reset(w.debounce)
	}
}

func (w *Watcher) fire() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.timer = nil
	w.mu.Unlock()

	cfg, err := LoadFrom(w.paths)
	if err != nil {
		logging.WithError(err, "config reload")
	}
	if w.onReload != nil {
		w.onReload(cfg, err)
	}
}
