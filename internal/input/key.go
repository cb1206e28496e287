// Package input turns terminal key presses into typing actions and a keystroke timeline.
package input

import (
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// Key is a browser-style key name with modifier flags.
type Key struct {
	Name string
	Ctrl bool
	Alt  bool
}

// KeyFromMsg converts a Bubble Tea key message into a Key.
func KeyFromMsg(msg tea.KeyMsg) Key {
	k := Key{Alt: msg.Alt}
	switch msg.Type {
	case tea.KeyRunes:
		k.Name = string(msg.Runes)
	case tea.KeySpace:
		k.Name = " "
	case tea.KeyBackspace:
		k.Name = "Backspace"
	case tea.KeyCtrlH, tea.KeyCtrlW:
		// Most terminals send these for ctrl+backspace.
		k.Name = "Backspace"
		k.Ctrl = true
	case tea.KeyTab:
		k.Name = "Tab"
	case tea.KeyEnter:
		k.Name = "Enter"
	case tea.KeyEsc:
		k.Name = "Escape"
	case tea.KeyDelete:
		k.Name = "Delete"
	default:
		name := strings.TrimPrefix(msg.String(), "alt+")
		if rest, ok := strings.CutPrefix(name, "ctrl+"); ok {
			k.Ctrl = true
			name = rest
		}
		k.Name = name
	}
	return k
}

// IsTypingKey reports whether k feeds typing progress: one printable rune, Backspace or Tab.
func IsTypingKey(k Key) bool {
	switch k.Name {
	case "Backspace", "Tab":
		return true
	}
	if utf8.RuneCountInString(k.Name) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(k.Name)
	return unicode.IsPrint(r)
}
