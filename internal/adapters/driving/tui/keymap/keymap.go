// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application. Only the menu honours "q"; views with a
	// text input quit on ctrl+c alone.
	Quit key.Binding

	Help key.Binding

	// Back returns to the menu.
	Back key.Binding

	// Submit sends the input line.
	Submit key.Binding

	Up   key.Binding
	Down key.Binding

	// Select picks the highlighted option.
	Select key.Binding

	// Toggle marks a policy announcement for inclusion.
	Toggle key.Binding

	// Focus switches between the option list and the input.
	Focus key.Binding

	// Reset starts the newsletter over.
	Reset key.Binding

	// Sync synchronises the highlighted source.
	Sync key.Binding

	// Refresh reloads the current list.
	Refresh key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "list/input"),
		),
		Reset: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "start over"),
		),
		Sync: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sync"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// ShortHelp returns the bindings shown on the menu.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// ChatHelp returns bindings for the newsletter input.
func (k *KeyMap) ChatHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Reset, k.Back}
}

// OptionsHelp returns bindings while an option list is focused.
// Policy picks add the toggle binding.
func (k *KeyMap) OptionsHelp(multi bool) []key.Binding {
	if multi {
		return []key.Binding{k.Up, k.Toggle, k.Select, k.Focus, k.Back}
	}
	return []key.Binding{k.Up, k.Select, k.Focus, k.Back}
}

// SourcesHelp returns bindings for the sources view.
func (k *KeyMap) SourcesHelp() []key.Binding {
	return []key.Binding{k.Up, k.Sync, k.Refresh, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Toggle},
		{k.Submit, k.Focus, k.Reset, k.Back},
		{k.Sync, k.Refresh, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
