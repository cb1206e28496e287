package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

type recordedKey struct {
	key  string
	ctrl bool
}

type fakeTypist struct {
	keys  []recordedKey
	panic bool
}

func (f *fakeTypist) RecordKeystroke(key string, ctrl bool) {
	if f.panic {
		panic("typist exploded")
	}
	f.keys = append(f.keys, recordedKey{key: key, ctrl: ctrl})
}

type fakePalette struct {
	toggles int
}

func (f *fakePalette) TogglePalette() { f.toggles++ }

func TestDispatchPaletteWinsOverTyping(t *testing.T) {
	typist := &fakeTypist{}
	palette := &fakePalette{}
	d := NewDispatcher(NewKeyMap(""), typist, palette, nil)

	if got := d.Dispatch(tea.KeyMsg{Type: tea.KeyCtrlK}); got != PaletteToggled {
		t.Fatalf("expected palette toggle, got %v", got)
	}
	if palette.toggles != 1 || len(typist.keys) != 0 {
		t.Fatalf("palette key must not reach typing: toggles=%d keys=%v", palette.toggles, typist.keys)
	}
}

func TestDispatchForwardsTypingKeys(t *testing.T) {
	typist := &fakeTypist{}
	d := NewDispatcher(NewKeyMap(DefaultPaletteKey), typist, &fakePalette{}, nil)

	msgs := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("c")},
		{Type: tea.KeySpace, Runes: []rune(" ")},
		{Type: tea.KeyBackspace},
		{Type: tea.KeyCtrlW},
		{Type: tea.KeyTab},
	}
	for _, msg := range msgs {
		if got := d.Dispatch(msg); got != Typed {
			t.Fatalf("%q: expected typed, got %v", msg.String(), got)
		}
	}
	want := []recordedKey{{"c", false}, {" ", false}, {"Backspace", false}, {"Backspace", true}, {"Tab", false}}
	if len(typist.keys) != len(want) {
		t.Fatalf("expected %d keys, got %v", len(want), typist.keys)
	}
	for i := range want {
		if typist.keys[i] != want[i] {
			t.Fatalf("key %d: expected %+v, got %+v", i, want[i], typist.keys[i])
		}
	}
}

func TestDispatchIgnoresOtherKeys(t *testing.T) {
	typist := &fakeTypist{}
	d := NewDispatcher(NewKeyMap(""), typist, &fakePalette{}, nil)
	for _, msg := range []tea.KeyMsg{{Type: tea.KeyEnter}, {Type: tea.KeyUp}, {Type: tea.KeyEsc}} {
		if got := d.Dispatch(msg); got != Unhandled {
			t.Fatalf("%q: expected unhandled, got %v", msg.String(), got)
		}
	}
	if len(typist.keys) != 0 {
		t.Fatalf("expected no forwarded keys, got %v", typist.keys)
	}
}

func TestDispatchSurvivesTypistPanic(t *testing.T) {
	d := NewDispatcher(NewKeyMap(""), &fakeTypist{panic: true}, &fakePalette{}, nil)
	if got := d.Dispatch(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}); got != Typed {
		t.Fatalf("expected typed result even when typist fails, got %v", got)
	}
}

func TestDispatchCustomPaletteKey(t *testing.T) {
	palette := &fakePalette{}
	typist := &fakeTypist{}
	d := NewDispatcher(NewKeyMap("ctrl+p"), typist, palette, nil)
	d.Dispatch(tea.KeyMsg{Type: tea.KeyCtrlP})
	d.Dispatch(tea.KeyMsg{Type: tea.KeyCtrlK})
	if palette.toggles != 1 {
		t.Fatalf("expected only ctrl+p to toggle, got %d", palette.toggles)
	}
}
