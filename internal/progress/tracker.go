// Package progress classifies typed characters against a target word.
package progress

// Classification is the state of one character position.
type Classification int

const (
	Unmarked Classification = iota
	Correct
	Wrong
)

func (c Classification) String() string {
	switch c {
	case Correct:
		return "correct"
	case Wrong:
		return "wrong"
	default:
		return "unmarked"
	}
}

// Tracker compares a typed buffer with a target word one rune at a time.
// marks always has length max(len(target), len(typed)).
type Tracker struct {
	target []rune
	typed  []rune
	marks  []Classification
}

// NewTracker returns a tracker for the given target word.
func NewTracker(target string) *Tracker {
	t := &Tracker{}
	t.Reset(target)
	return t
}

// Reset replaces the target word and clears the typed buffer.
func (t *Tracker) Reset(target string) {
	t.target = []rune(target)
	t.typed = t.typed[:0]
	t.marks = make([]Classification, len(t.target))
}

// Type appends r and classifies only the new position.
func (t *Tracker) Type(r rune) Classification {
	idx := len(t.typed)
	t.typed = append(t.typed, r)
	mark := Wrong
	if idx < len(t.target) && t.target[idx] == r {
		mark = Correct
	}
	if idx < len(t.marks) {
		t.marks[idx] = mark
	} else {
		t.marks = append(t.marks, mark)
	}
	return mark
}

// Backspace removes the last typed rune. It reports false on an empty buffer.
func (t *Tracker) Backspace() bool {
	if len(t.typed) == 0 {
		return false
	}
	idx := len(t.typed) - 1
	t.typed = t.typed[:idx]
	if idx < len(t.target) {
		t.marks[idx] = Unmarked
	} else {
		t.marks = t.marks[:idx]
	}
	return true
}

// Clear removes everything typed for the current target.
func (t *Tracker) Clear() {
	for t.Backspace() {
	}
}

// Classify returns the classification at i; out-of-range indices are unmarked.
func (t *Tracker) Classify(i int) Classification {
	if i < 0 || i >= len(t.marks) {
		return Unmarked
	}
	return t.marks[i]
}

// Classifications returns a copy of every in-range classification.
func (t *Tracker) Classifications() []Classification {
	out := make([]Classification, len(t.marks))
	copy(out, t.marks)
	return out
}

// Len is the union of the target and typed index spans.
func (t *Tracker) Len() int {
	return len(t.marks)
}

// Target returns the target word.
func (t *Tracker) Target() string {
	return string(t.target)
}

// Typed returns what has been typed so far.
func (t *Tracker) Typed() string {
	return string(t.typed)
}

// TypedLen returns the number of typed runes.
func (t *Tracker) TypedLen() int {
	return len(t.typed)
}

// Counts returns the number of correct and wrong typed positions.
func (t *Tracker) Counts() (correct, wrong int) {
	for _, mark := range t.marks {
		switch mark {
		case Correct:
			correct++
		case Wrong:
			wrong++
		}
	}
	return correct, wrong
}

// Matches reports whether the typed buffer equals the target exactly.
func (t *Tracker) Matches() bool {
	return string(t.typed) == string(t.target)
}
