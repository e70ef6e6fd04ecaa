// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application.
type KeyMap struct {
	// Navigation
	Prev key.Binding
	Next key.Binding

	// Actions
	ToggleAutoplay key.Binding
	ToggleCaptions key.Binding
	Refresh        key.Binding
	Logs           key.Binding

	// General
	Help   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("h/←", "previous poster"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("l/→", "next poster"),
		),
		ToggleAutoplay: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle autoplay"),
		),
		ToggleCaptions: key.NewBinding(
			key.WithKeys("i"),
			key.WithHelp("i", "toggle caption panel"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload images"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "debug log"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.ToggleAutoplay, k.ToggleCaptions, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next},
		{k.ToggleAutoplay, k.ToggleCaptions, k.Refresh},
		{k.Logs, k.Help, k.Escape, k.Quit},
	}
}
