package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/typerec/internal/model"
)

// KeySummary aggregates the presses of one key within a session.
type KeySummary struct {
	Key       string
	Presses   int
	MeanGapMs float64
}

// SummarizeKeys counts key-down events per key, most pressed first. The mean
// gap is measured from the previous key-down of any key.
func SummarizeKeys(events []model.KeyEvent) []KeySummary {
	type acc struct {
		presses int
		gapSum  int64
		gaps    int
	}
	byKey := map[string]*acc{}
	var prev int64 = -1
	for _, ev := range events {
		if ev.Direction != model.KeyDown {
			continue
		}
		entry, ok := byKey[ev.Key]
		if !ok {
			entry = &acc{}
			byKey[ev.Key] = entry
		}
		entry.presses++
		if prev >= 0 {
			entry.gapSum += ev.RelativeMs - prev
			entry.gaps++
		}
		prev = ev.RelativeMs
	}

	out := make([]KeySummary, 0, len(byKey))
	for key, entry := range byKey {
		s := KeySummary{Key: key, Presses: entry.presses}
		if entry.gaps > 0 {
			s.MeanGapMs = float64(entry.gapSum) / float64(entry.gaps)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Presses == out[j].Presses {
			return out[i].Key < out[j].Key
		}
		return out[i].Presses > out[j].Presses
	})
	return out
}

// Rhythm returns key-down counts per bucket of bucketMs.
func Rhythm(events []model.KeyEvent, bucketMs int64) []float64 {
	if bucketMs <= 0 || len(events) == 0 {
		return nil
	}
	last := events[len(events)-1].RelativeMs
	out := make([]float64, last/bucketMs+1)
	for _, ev := range events {
		if ev.Direction == model.KeyDown {
			out[ev.RelativeMs/bucketMs]++
		}
	}
	return out
}

// RenderTimeline prints the last limit events. A non-positive limit prints all.
func RenderTimeline(w io.Writer, events []model.KeyEvent, limit int) error {
	if len(events) == 0 {
		_, err := fmt.Fprintln(w, "No key events recorded.")
		return err
	}
	start := 0
	if limit > 0 && len(events) > limit {
		start = len(events) - limit
	}
	if _, err := fmt.Fprintln(w, "Timeline"); err != nil {
		return err
	}
	tbl := newTable(
		column{title: "#", align: alignRight},
		column{title: "Time (ms)", align: alignRight},
		column{title: "Type"},
		column{title: "Key"},
	)
	for i, ev := range events[start:] {
		tbl.add(
			fmt.Sprintf("%d", start+i+1),
			fmt.Sprintf("%d", ev.RelativeMs),
			string(ev.Direction),
			keyLabel(ev.Key),
		)
	}
	return tbl.render(w)
}

// RenderKeySummary prints per-key press counts.
func RenderKeySummary(w io.Writer, summary []KeySummary) error {
	if len(summary) == 0 {
		_, err := fmt.Fprintln(w, "No key presses recorded.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Per-Key"); err != nil {
		return err
	}
	tbl := newTable(
		column{title: "Key"},
		column{title: "Presses", align: alignRight},
		column{title: "Avg Gap (ms)", align: alignRight},
	)
	for _, s := range summary {
		tbl.add(keyLabel(s.Key), fmt.Sprintf("%d", s.Presses), fmt.Sprintf("%.1f", s.MeanGapMs))
	}
	return tbl.render(w)
}

func keyLabel(key string) string {
	if key == " " {
		return "<space>"
	}
	return key
}
