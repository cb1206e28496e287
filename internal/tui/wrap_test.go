package tui

import (
	"testing"

	"github.com/verte-zerg/typerec/internal/progress"
)

func trackerWith(target, typed string) *progress.Tracker {
	tr := progress.NewTracker(target)
	for _, r := range typed {
		tr.Type(r)
	}
	return tr
}

func TestBuildStyledRunesClassifiesCurrentWord(t *testing.T) {
	runes := buildStyledRunes(textState{
		words:   []string{"cat", "dog"},
		current: trackerWith("cat", "cap"),
	})
	if len(runes) != 7 {
		t.Fatalf("expected 7 runes, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("c") || runes[1].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for matching runes")
	}
	if runes[2].s != incorrectStyle.Render("t") {
		t.Fatalf("expected incorrect style keeping the target rune")
	}
	if !runes[3].isSpace {
		t.Fatalf("expected word separator")
	}
	if runes[4].s != pendingStyle.Render("d") {
		t.Fatalf("expected pending style for next word")
	}
}

func TestBuildStyledRunesCursor(t *testing.T) {
	runes := buildStyledRunes(textState{
		words:   []string{"ab"},
		current: trackerWith("ab", "a"),
	})
	if runes[1].s != currentWordStyle.Underline(true).Render("b") {
		t.Fatalf("expected cursor on second rune")
	}
}

func TestBuildStyledRunesOverflow(t *testing.T) {
	runes := buildStyledRunes(textState{
		words:   []string{"cat"},
		current: trackerWith("cat", "cats"),
	})
	if len(runes) != 4 {
		t.Fatalf("expected overflow rune to be shown, got %d runes", len(runes))
	}
	if runes[3].s != overflowStyle.Render("s") {
		t.Fatalf("expected overflow style for typed rune past the target")
	}
}

func TestBuildStyledRunesCommittedWord(t *testing.T) {
	runes := buildStyledRunes(textState{
		words:   []string{"cat", "dog"},
		history: []string{"ca"},
		index:   1,
		current: trackerWith("dog", ""),
	})
	if runes[2].s != incorrectStyle.Render("t") {
		t.Fatalf("expected skipped rune of committed word to be wrong")
	}
	if runes[4].s != currentWordStyle.Underline(true).Render("d") {
		t.Fatalf("expected cursor at start of current word")
	}
}

func plainRunes(text string) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	return out
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	got := wrapStyledRunes(plainRunes("ab cd ef"), 5)
	if got != "ab\ncd ef" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapStyledRunesBreaksLongWords(t *testing.T) {
	got := wrapStyledRunes(plainRunes("abcdef"), 4)
	if got != "abcd\nef" {
		t.Fatalf("unexpected wrap %q", got)
	}
}
