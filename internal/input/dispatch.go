package input

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/typerec/internal/logging"
)

// DefaultPaletteKey toggles the command palette.
const DefaultPaletteKey = "ctrl+k"

// Typist records accepted keystrokes against the current word.
type Typist interface {
	RecordKeystroke(key string, ctrlHeld bool)
}

// PaletteToggler flips command palette visibility.
type PaletteToggler interface {
	TogglePalette()
}

// Result tells the caller what a dispatched key did.
type Result int

const (
	Unhandled Result = iota
	PaletteToggled
	Typed
)

// KeyMap holds the bindings checked before typing.
type KeyMap struct {
	Palette key.Binding
}

// NewKeyMap builds the key map for the given palette binding.
func NewKeyMap(paletteKey string) KeyMap {
	if paletteKey == "" {
		paletteKey = DefaultPaletteKey
	}
	return KeyMap{
		Palette: key.NewBinding(key.WithKeys(paletteKey), key.WithHelp(paletteKey, "palette")),
	}
}

// Dispatcher routes key presses to the palette or to typing progress.
type Dispatcher struct {
	keys    KeyMap
	typist  Typist
	palette PaletteToggler
	logger  *zap.SugaredLogger
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(keys KeyMap, typist Typist, palette PaletteToggler, logger *zap.SugaredLogger) *Dispatcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Dispatcher{keys: keys, typist: typist, palette: palette, logger: logger}
}

// Dispatch handles one key press. The palette binding wins over typing.
func (d *Dispatcher) Dispatch(msg tea.KeyMsg) Result {
	if key.Matches(msg, d.keys.Palette) {
		logging.Guard(d.logger, "palette", d.palette.TogglePalette)
		return PaletteToggled
	}
	k := KeyFromMsg(msg)
	if !IsTypingKey(k) {
		return Unhandled
	}
	logging.Guard(d.logger, "typing", func() {
		d.typist.RecordKeystroke(k.Name, k.Ctrl)
	})
	return Typed
}
