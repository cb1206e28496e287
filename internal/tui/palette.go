package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

type paletteAction int

const (
	actionRestart paletteAction = iota
	actionToggleKeys
	actionToggleAudio
	actionDuration
	actionQuit
)

type paletteItem struct {
	title    string
	desc     string
	action   paletteAction
	duration time.Duration
}

func (i paletteItem) Title() string       { return i.title }
func (i paletteItem) Description() string { return i.desc }
func (i paletteItem) FilterValue() string { return i.title }

var paletteDurations = []time.Duration{15 * time.Second, 30 * time.Second, 60 * time.Second, 120 * time.Second}

func paletteItems() []list.Item {
	items := []list.Item{
		paletteItem{title: "Restart", desc: "New text, end the running session", action: actionRestart},
		paletteItem{title: "Toggle keystroke recording", desc: "Record the key timeline of the next sessions", action: actionToggleKeys},
		paletteItem{title: "Toggle audio recording", desc: "Record the microphone during sessions", action: actionToggleAudio},
	}
	for _, d := range paletteDurations {
		items = append(items, paletteItem{
			title:    fmt.Sprintf("Duration %ds", int(d.Seconds())),
			desc:     "Countdown length of the next session",
			action:   actionDuration,
			duration: d,
		})
	}
	return append(items, paletteItem{title: "Quit", desc: "Exit typerec", action: actionQuit})
}

// palette is the command palette. Its visibility is owned here and flipped
// through TogglePalette.
type palette struct {
	list    list.Model
	visible bool
}

func newPalette() *palette {
	l := list.New(paletteItems(), list.NewDefaultDelegate(), 0, 0)
	l.Title = "Commands"
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)
	return &palette{list: l}
}

// TogglePalette flips palette visibility.
func (p *palette) TogglePalette() {
	p.visible = !p.visible
	if !p.visible {
		p.list.ResetFilter()
		p.list.Select(0)
	}
}

func (p *palette) setSize(width, height int) {
	w := width / 2
	if w < 30 {
		w = width
	}
	h := height - 4
	if h < 5 {
		h = 5
	}
	p.list.SetSize(w, h)
}

func (p *palette) filtering() bool {
	return p.list.FilterState() == list.Filtering
}

func (p *palette) selected() (paletteItem, bool) {
	item, ok := p.list.SelectedItem().(paletteItem)
	return item, ok
}

func (p *palette) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	p.list, cmd = p.list.Update(msg)
	return cmd
}

func (p *palette) view() string {
	return p.list.View()
}
