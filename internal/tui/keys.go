package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/typerec/internal/input"
)

type keyMap struct {
	Restart key.Binding
	Record  key.Binding
	Palette key.Binding
	Play    key.Binding
	Close   key.Binding
	Select  key.Binding
	Quit    key.Binding
}

func newKeyMap(palette input.KeyMap) keyMap {
	return keyMap{
		Restart: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "restart")),
		Record:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "keystroke rec")),
		Palette: palette.Palette,
		Play:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "play audio")),
		Close:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Select:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "run")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Restart, k.Play, k.Select, k.Close, k.Record, k.Palette, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// forView enables only the bindings that make sense on the current screen.
func (k *keyMap) forView(v view) {
	k.Restart.SetEnabled(v != viewPalette)
	k.Record.SetEnabled(v == viewTyping)
	k.Play.SetEnabled(v == viewResult)
	k.Close.SetEnabled(v == viewPalette)
	k.Select.SetEnabled(v == viewPalette)
}
