package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typerec/internal/progress"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// textState is what the body renders: committed words, the tracker of the
// current word and the words still ahead.
type textState struct {
	words   []string
	history []string
	index   int
	current *progress.Tracker
}

func buildStyledRunes(st textState) []styledRune {
	out := make([]styledRune, 0, len(st.words)*6)
	for i, word := range st.words {
		if i > 0 {
			out = append(out, styledRune{s: pendingStyle.Render(" "), width: 1, isSpace: true})
		}
		switch {
		case i < st.index && i < len(st.history):
			tracker := progress.NewTracker(word)
			for _, r := range st.history[i] {
				tracker.Type(r)
			}
			out = appendWord(out, tracker, -1, false)
		case i == st.index && st.current != nil:
			out = appendWord(out, st.current, st.current.TypedLen(), true)
		default:
			for _, r := range word {
				out = append(out, newStyledRune(r, pendingStyle))
			}
		}
	}
	return out
}

// appendWord renders one word by classification. Overflow positions show the
// typed rune; a skipped target rune of a committed word counts as wrong.
func appendWord(out []styledRune, tracker *progress.Tracker, cursor int, current bool) []styledRune {
	target := []rune(tracker.Target())
	typed := []rune(tracker.Typed())
	for i := 0; i < tracker.Len(); i++ {
		var displayed rune
		if i < len(target) {
			displayed = target[i]
		} else {
			displayed = typed[i]
		}

		style := pendingStyle
		switch tracker.Classify(i) {
		case progress.Correct:
			style = correctStyle
		case progress.Wrong:
			style = incorrectStyle
			if i >= len(target) {
				style = overflowStyle
			}
		case progress.Unmarked:
			switch {
			case current:
				style = currentWordStyle
			case i >= len(typed):
				style = incorrectStyle
			}
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, newStyledRune(displayed, style))
	}
	return out
}

func newStyledRune(r rune, style lipgloss.Style) styledRune {
	return styledRune{s: style.Render(string(r)), width: runewidth.RuneWidth(r)}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
