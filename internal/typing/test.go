// Package typing holds the word state of one practice test.
package typing

import (
	"unicode/utf8"

	"github.com/verte-zerg/typerec/internal/progress"
)

// Outcome reports what the last keystroke did to the test.
type Outcome struct {
	Started  bool
	Finished bool
	Restart  bool
}

// Test tracks the target words, what was typed for each committed word and
// the progress of the current word.
type Test struct {
	words   []string
	index   int
	history []string
	current *progress.Tracker

	started  bool
	finished bool

	// Marks of committed words.
	correct   int
	incorrect int

	outcome Outcome
}

// New starts a test over words.
func New(words []string) *Test {
	t := &Test{}
	t.Reset(words)
	return t
}

// Reset replaces the words and clears all progress.
func (t *Test) Reset(words []string) {
	t.words = append([]string(nil), words...)
	t.index = 0
	t.history = make([]string, 0, len(words))
	t.started = false
	t.finished = false
	t.correct = 0
	t.incorrect = 0
	t.outcome = Outcome{}
	t.current = progress.NewTracker(t.wordAt(0))
}

// RecordKeystroke applies one accepted key. Keys are browser-style names:
// single printable runes, "Backspace" and "Tab".
func (t *Test) RecordKeystroke(key string, ctrlHeld bool) {
	switch key {
	case "Tab":
		t.outcome.Restart = true
		return
	case "Backspace":
		if t.finished {
			return
		}
		if ctrlHeld {
			t.current.Clear()
			return
		}
		t.current.Backspace()
		return
	}

	r, size := utf8.DecodeRuneInString(key)
	if size == 0 || size != len(key) || ctrlHeld || t.finished || len(t.words) == 0 {
		return
	}
	if r == ' ' {
		t.commit()
		return
	}

	if !t.started {
		t.started = true
		t.outcome.Started = true
	}
	t.current.Type(r)
	if t.index == len(t.words)-1 && t.current.Matches() {
		t.commit()
	}
}

func (t *Test) commit() {
	if t.current.TypedLen() == 0 {
		return
	}
	t.history = append(t.history, t.current.Typed())
	correct, incorrect := t.current.Counts()
	t.correct += correct
	t.incorrect += incorrect
	t.index++
	if t.index >= len(t.words) {
		t.finished = true
		t.outcome.Finished = true
		return
	}
	t.current.Reset(t.wordAt(t.index))
}

// Outcome returns the accumulated outcome since the last call and clears it.
func (t *Test) Outcome() Outcome {
	out := t.outcome
	t.outcome = Outcome{}
	return out
}

// Words returns the target words.
func (t *Test) Words() []string {
	return t.words
}

// Index returns the position of the current word.
func (t *Test) Index() int {
	return t.index
}

// History returns what was typed for each committed word.
func (t *Test) History() []string {
	return t.history
}

// Current returns the tracker of the word being typed.
func (t *Test) Current() *progress.Tracker {
	return t.current
}

// Started reports whether any character was typed.
func (t *Test) Started() bool {
	return t.started
}

// Finished reports whether the last word was committed.
func (t *Test) Finished() bool {
	return t.finished
}

// Counts returns the correct and incorrect runes of the committed words plus
// the current word. Backspaced runes are not counted.
func (t *Test) Counts() (correct, incorrect int) {
	if t.finished {
		return t.correct, t.incorrect
	}
	correct, incorrect = t.current.Counts()
	return t.correct + correct, t.incorrect + incorrect
}

// Progress returns committed words over total words.
func (t *Test) Progress() float64 {
	if len(t.words) == 0 {
		return 0
	}
	return float64(t.index) / float64(len(t.words))
}

func (t *Test) wordAt(i int) string {
	if i < 0 || i >= len(t.words) {
		return ""
	}
	return t.words[i]
}
