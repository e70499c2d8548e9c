package keymap

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/andyrewlee/cellframe/internal/config"
)

// Action identifies a configurable keybinding.
type Action string

const (
	ActionScrollUp     Action = "scroll_up"
	ActionScrollDown   Action = "scroll_down"
	ActionPageUp       Action = "page_up"
	ActionPageDown     Action = "page_down"
	ActionScrollTop    Action = "scroll_top"
	ActionScrollBottom Action = "scroll_bottom"

	ActionQuit Action = "quit"
	ActionCopy Action = "copy"
)

type bindingDef struct {
	action Action
	keys   []string
	desc   string
}

// KeyMap defines all keybindings for the application.
type KeyMap struct {
	ScrollUp     key.Binding
	ScrollDown   key.Binding
	PageUp       key.Binding
	PageDown     key.Binding
	ScrollTop    key.Binding
	ScrollBottom key.Binding

	Quit key.Binding
	Copy key.Binding
}

var defaultBindings = []bindingDef{
	{ActionScrollUp, []string{"up"}, "scroll up"},
	{ActionScrollDown, []string{"down"}, "scroll down"},
	{ActionPageUp, []string{"pgup"}, "page up"},
	{ActionPageDown, []string{"pgdown"}, "page down"},
	{ActionScrollTop, []string{"home"}, "top"},
	{ActionScrollBottom, []string{"end"}, "bottom"},
	{ActionQuit, []string{"q", "ctrl+c"}, "quit"},
	{ActionCopy, []string{"y"}, "copy screen"},
}

// New builds a keymap from defaults, applying any user overrides.
func New(cfg config.KeyMapConfig) KeyMap {
	b := make(map[Action]key.Binding, len(defaultBindings))
	for _, def := range defaultBindings {
		b[def.action] = bindingFromDef(cfg, def)
	}
	return KeyMap{
		ScrollUp:     b[ActionScrollUp],
		ScrollDown:   b[ActionScrollDown],
		PageUp:       b[ActionPageUp],
		PageDown:     b[ActionPageDown],
		ScrollTop:    b[ActionScrollTop],
		ScrollBottom: b[ActionScrollBottom],
		Quit:         b[ActionQuit],
		Copy:         b[ActionCopy],
	}
}

// Default returns the keymap with no overrides.
func Default() KeyMap {
	return New(config.KeyMapConfig{})
}

func bindingFromDef(cfg config.KeyMapConfig, def bindingDef) key.Binding {
	keys, ok := cfg.BindingFor(string(def.action))
	if !ok || len(keys) == 0 {
		keys = def.keys
	}
	helpKey := strings.Join(keys, "/")
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey, def.desc),
	)
}

// ShortHelp returns the bindings shown in the status line.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ScrollUp, k.ScrollDown, k.PageDown, k.Copy, k.Quit}
}

// PrimaryKey returns the first key in the binding, if present.
func PrimaryKey(binding key.Binding) string {
	keys := binding.Keys()
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}

// Hint renders "key desc" pairs for a set of bindings.
func Hint(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}
