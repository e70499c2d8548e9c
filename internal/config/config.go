package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/andyrewlee/cellframe/internal/cell"
)

const (
	DefaultTabWidth       = 4
	DefaultTickIntervalMs = 100
	DefaultBorder         = "rounded"
	DefaultPlaceholder    = "·"
)

// KeyMapConfig holds user overrides for keybindings.
type KeyMapConfig struct {
	Bindings map[string][]string `json:"bindings,omitempty"`
}

// BindingFor returns the configured keys for an action, if present.
func (k KeyMapConfig) BindingFor(action string) ([]string, bool) {
	if len(k.Bindings) == 0 {
		return nil, false
	}
	if keys, ok := k.Bindings[action]; ok {
		return keys, true
	}
	if keys, ok := k.Bindings[strings.ToLower(action)]; ok {
		return keys, true
	}
	return nil, false
}

// StyleConfig is the JSON form of a cell style. Colors are "#rrggbb",
// a palette index ("0"-"255"), or empty for the terminal default.
type StyleConfig struct {
	Fg        string `json:"fg,omitempty"`
	Bg        string `json:"bg,omitempty"`
	Bold      bool   `json:"bold,omitempty"`
	Dim       bool   `json:"dim,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Invert    bool   `json:"invert,omitempty"`
	Strike    bool   `json:"strikethrough,omitempty"`
	Blink     bool   `json:"blink,omitempty"`
}

// Style converts the config into a cell style.
func (s StyleConfig) Style() cell.Style {
	st := cell.Style{Fg: parseColor(s.Fg), Bg: parseColor(s.Bg)}
	if s.Bold {
		st.Decoration |= cell.Bold
	}
	if s.Dim {
		st.Decoration |= cell.Dim
	}
	if s.Italic {
		st.Decoration |= cell.Italic
	}
	if s.Underline {
		st.Decoration |= cell.Underline
	}
	if s.Invert {
		st.Decoration |= cell.Invert
	}
	if s.Strike {
		st.Decoration |= cell.Strikethrough
	}
	if s.Blink {
		st.Decoration |= cell.Blink
	}
	return st
}

func parseColor(s string) cell.Color {
	s = strings.TrimSpace(s)
	if s == "" {
		return cell.Color{}
	}
	if strings.HasPrefix(s, "#") {
		return cell.HexColor(s)
	}
	idx, err := strconv.Atoi(s)
	if err != nil || idx < 0 || idx > 255 {
		return cell.Color{}
	}
	return cell.Indexed(uint8(idx))
}

// Config holds the application configuration
type Config struct {
	Paths            *Paths       `json:"-"`
	TabWidth         int          `json:"tab_width,omitempty"`
	Placeholder      string       `json:"placeholder,omitempty"`
	PlaceholderStyle StyleConfig  `json:"placeholder_style,omitempty"`
	Border           string       `json:"border,omitempty"`
	TickIntervalMs   int          `json:"tick_interval_ms,omitempty"`
	LogLevel         string       `json:"log_level,omitempty"`
	KeyMap           KeyMapConfig `json:"keymap,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return defaultsWith(paths), nil
}

func defaultsWith(paths *Paths) *Config {
	return &Config{
		Paths:            paths,
		TabWidth:         DefaultTabWidth,
		Placeholder:      DefaultPlaceholder,
		PlaceholderStyle: StyleConfig{Dim: true},
		Border:           DefaultBorder,
		TickIntervalMs:   DefaultTickIntervalMs,
		LogLevel:         "info",
		KeyMap:           KeyMapConfig{},
	}
}

// Load loads config overrides from ~/.cellframe/config.json if present.
func Load() (*Config, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return nil, err
	}
	return LoadFrom(paths)
}

// LoadFrom applies the overrides in paths.ConfigPath on top of the defaults.
// A missing file is not an error.
func LoadFrom(paths *Paths) (*Config, error) {
	cfg := defaultsWith(paths)

	data, err := os.ReadFile(paths.ConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", paths.ConfigPath, err)
	}
	cfg.Paths = paths
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.TabWidth < 1 {
		c.TabWidth = DefaultTabWidth
	}
	if c.TickIntervalMs <= 0 {
		c.TickIntervalMs = DefaultTickIntervalMs
	}
	if c.Border == "" {
		c.Border = DefaultBorder
	}
}

// TickInterval returns the scheduler period.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMs) * time.Millisecond
}

// PlaceholderCell returns the cell drawn where no surface covers the screen.
// An empty placeholder, or one whose first rune is not a single column
// wide, yields the plain empty cell.
func (c *Config) PlaceholderCell() cell.Cell {
	for _, r := range c.Placeholder {
		if runewidth.RuneWidth(r) != 1 {
			break
		}
		return cell.New(cell.Character{Glyph: r, Style: c.PlaceholderStyle.Style()})
	}
	return cell.Empty()
}
