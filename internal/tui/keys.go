package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines key bindings.
type keyMap struct {
	Record    key.Binding
	Forward   key.Binding
	Back      key.Binding
	Delete    key.Binding
	DeleteNow key.Binding
	Cancel    key.Binding
	Reset     key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var defaultKeyMap = keyMap{
	Record: key.NewBinding(
		key.WithKeys(" ", "space", "r"),
		key.WithHelp("space", "record/stop"),
	),
	Forward: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "step forward"),
	),
	Back: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "step back"),
	),
	Delete: key.NewBinding(
		key.WithKeys("backspace"),
		key.WithHelp("backspace", "delete back"),
	),
	DeleteNow: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "delete now"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "keep"),
	),
	Reset: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Record, k.Delete, k.Cancel, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Record, k.Forward, k.Back},
		{k.Delete, k.DeleteNow, k.Cancel},
		{k.Reset, k.Help, k.Quit},
	}
}
