package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/andyrewlee/cellframe/internal/cell"
)

func writeConfig(t *testing.T, body string) *Paths {
	t.Helper()
	paths := PathsIn(t.TempDir())
	if err := os.WriteFile(paths.ConfigPath, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return paths
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	if err != nil {
		t.Fatalf("DefaultConfig() error = %v", err)
	}
	if cfg.Paths == nil {
		t.Fatal("DefaultConfig() returned nil Paths")
	}
	if cfg.TabWidth != DefaultTabWidth || cfg.TickInterval() != 100*time.Millisecond {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Border != "rounded" {
		t.Fatalf("expected rounded border, got %q", cfg.Border)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(PathsIn(t.TempDir()))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.TabWidth != DefaultTabWidth {
		t.Fatalf("expected default tab width, got %d", cfg.TabWidth)
	}
}

func TestLoadOverrides(t *testing.T) {
	paths := writeConfig(t, `{
		"tab_width": 8,
		"border": "double",
		"tick_interval_ms": 250,
		"placeholder": "~",
		"placeholder_style": {"fg": "#ff0000", "bg": "4", "bold": true},
		"keymap": {"bindings": {"scroll_up": ["k"]}}
	}`)
	cfg, err := LoadFrom(paths)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.TabWidth != 8 || cfg.Border != "double" || cfg.TickInterval() != 250*time.Millisecond {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("expected untouched keys to keep defaults, got %q", cfg.LogLevel)
	}
	keys, ok := cfg.KeyMap.BindingFor("scroll_up")
	if !ok || len(keys) != 1 || keys[0] != "k" {
		t.Fatalf("expected scroll_up override, got %v %v", keys, ok)
	}

	ph := cfg.PlaceholderCell()
	if ph.Glyph != '~' || ph.Fg != cell.RGB(0xff, 0, 0) || ph.Bg != cell.Indexed(4) || !ph.Decoration.Has(cell.Bold) {
		t.Fatalf("unexpected placeholder cell %+v", ph)
	}
}

func TestLoadNormalizesInvalidValues(t *testing.T) {
	paths := writeConfig(t, `{"tab_width": 0, "tick_interval_ms": -5, "border": ""}`)
	cfg, err := LoadFrom(paths)
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.TabWidth != DefaultTabWidth || cfg.TickIntervalMs != DefaultTickIntervalMs || cfg.Border != DefaultBorder {
		t.Fatalf("expected normalized defaults, got %+v", cfg)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	paths := writeConfig(t, `{not json`)
	if _, err := LoadFrom(paths); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestEmptyPlaceholderIsEmptyCell(t *testing.T) {
	cfg := defaultsWith(PathsIn(filepath.Join(t.TempDir(), "x")))
	cfg.Placeholder = ""
	if !cfg.PlaceholderCell().IsEmpty() {
		t.Fatalf("expected empty cell")
	}
}

func TestWidePlaceholderIsEmptyCell(t *testing.T) {
	cfg := defaultsWith(PathsIn(filepath.Join(t.TempDir(), "x")))
	cfg.Placeholder = "中"
	if !cfg.PlaceholderCell().IsEmpty() {
		t.Fatalf("expected wide placeholder to fall back to the empty cell")
	}
}

func TestStyleConfigDecorations(t *testing.T) {
	st := StyleConfig{Invert: true, Strike: true, Blink: true}.Style()
	for _, d := range []cell.Decoration{cell.Invert, cell.Strikethrough, cell.Blink} {
		if st.Decoration&d == 0 {
			t.Fatalf("expected decoration %v set, got %v", d, st.Decoration)
		}
	}
	if st.Decoration&cell.Bold != 0 {
		t.Fatalf("expected bold unset, got %v", st.Decoration)
	}
}

func TestBindingForCaseInsensitive(t *testing.T) {
	k := KeyMapConfig{Bindings: map[string][]string{"page_down": {"space"}}}
	if _, ok := k.BindingFor("PAGE_DOWN"); !ok {
		t.Fatalf("expected lower-cased lookup to match")
	}
	if _, ok := (KeyMapConfig{}).BindingFor("quit"); ok {
		t.Fatalf("expected no binding in empty config")
	}
}
