package bubbletea

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

var _ help.KeyMap = PanelKeyMap{}

// PanelKeyMap defines the key bindings for the story panel.
type PanelKeyMap struct {
	Generate key.Binding
	Toggle   key.Binding
	Clear    key.Binding
	Copy     key.Binding

	// Story body scrolling
	Up           key.Binding
	Down         key.Binding
	HalfPageUp   key.Binding
	HalfPageDown key.Binding

	Help key.Binding
	Quit key.Binding
}

// DefaultPanelKeyMap returns the default key bindings.
func DefaultPanelKeyMap() PanelKeyMap {
	return PanelKeyMap{
		Generate: key.NewBinding(
			key.WithKeys("enter", "g"),
			key.WithHelp("enter/g", "generate"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab", " "),
			key.WithHelp("tab/space", "show/hide story"),
		),
		Clear: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "clear story"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy story"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "half page up"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "half page down"),
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
}

// ShortHelp implements help.KeyMap.
func (k PanelKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Toggle, k.Clear, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k PanelKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.Toggle, k.Clear, k.Copy},
		{k.Up, k.Down, k.HalfPageUp, k.HalfPageDown},
		{k.Help, k.Quit},
	}
}
