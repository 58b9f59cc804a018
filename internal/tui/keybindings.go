package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the TUI.
type KeyMap struct {
	Send    key.Binding
	NewLine key.Binding
	Restart key.Binding
	Quit    key.Binding
}

// DefaultKeyMap provides the default key bindings for the TUI.
var DefaultKeyMap = KeyMap{
	Send: key.NewBinding(
		key.WithKeys(KeyEnter),
		key.WithHelp("enter", "send"),
	),
	NewLine: key.NewBinding(
		key.WithKeys("shift+enter", KeyCtrlJ),
		key.WithHelp("ctrl+j", "new line"),
	),
	Restart: key.NewBinding(
		key.WithKeys(KeyCtrlR),
		key.WithHelp("ctrl+r", "new session"),
	),
	Quit: key.NewBinding(
		key.WithKeys(KeyEsc, KeyCtrlC),
		key.WithHelp("esc", "quit"),
	),
}

// helpLine renders the footer hints.
func (k KeyMap) helpLine() string {
	var out string
	for i, b := range []key.Binding{k.Send, k.NewLine, k.Restart, k.Quit} {
		if i > 0 {
			out += " · "
		}
		h := b.Help()
		out += h.Key + ": " + h.Desc
	}
	return out
}
