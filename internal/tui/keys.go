package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the editor's keyboard shortcuts.
type KeyMap struct {
	Clear   key.Binding
	Delete  key.Binding
	AddNode key.Binding
	Grid    key.Binding
	Snap    key.Binding
	ZoomIn  key.Binding
	ZoomOut key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap is the editor's key layout.
var DefaultKeyMap = KeyMap{
	Clear: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear selection"),
	),
	Delete: key.NewBinding(
		key.WithKeys("x", "delete", "backspace"),
		key.WithHelp("x", "delete selection"),
	),
	AddNode: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "add node"),
	),
	Grid: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "toggle grid"),
	),
	Snap: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "toggle snap"),
	),
	ZoomIn: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "zoom in"),
	),
	ZoomOut: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "zoom out"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Clear, k.Delete, k.Grid, k.Snap, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Clear, k.Delete, k.AddNode},
		{k.Grid, k.Snap},
		{k.ZoomIn, k.ZoomOut},
		{k.Help, k.Quit},
	}
}
