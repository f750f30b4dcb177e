package main

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the bindings for the list and the message form
type keyMap struct {
	Focus   key.Binding
	Submit  key.Binding
	Newline key.Binding
	Leave   key.Binding
	Connect key.Binding
	Refresh key.Binding
	Up      key.Binding
	Down    key.Binding
	Copy    key.Binding
	QR      key.Binding
	Log     key.Binding
	Dismiss key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Focus: key.NewBinding(
			key.WithKeys("i", "enter"),
			key.WithHelp("i", "write"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send link"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter"),
			key.WithHelp("alt+enter", "newline"),
		),
		Leave: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Connect: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "connect wallet"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy link"),
		),
		QR: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "qr"),
		),
		Log: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "log"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc", " "),
			key.WithHelp("enter", "ok"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// listHelp is the nav bar while the list has focus
func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Focus, k.Connect, k.Up, k.Down, k.Copy, k.QR, k.Refresh, k.Log, k.Quit}
}

// formHelp is the nav bar while the message form has focus
func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Newline, k.Leave}
}
