// Package stats contains result metrics and recording reports.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/typerec/internal/model"
)

// Metrics is the typing result of one session.
type Metrics struct {
	WPM      float64
	CPM      float64
	Accuracy float64
	Elapsed  time.Duration
}

// Measure derives metrics from rune counts. A word is five correct runes.
func Measure(correct, incorrect int, elapsed time.Duration) Metrics {
	m := Metrics{Elapsed: elapsed}
	if total := correct + incorrect; total > 0 {
		m.Accuracy = float64(correct) / float64(total)
	}
	if elapsed <= 0 {
		return m
	}
	m.CPM = float64(correct) / elapsed.Minutes()
	m.WPM = m.CPM / 5
	return m
}

// BundleMetrics measures the span between a bundle's start and end.
func BundleMetrics(b model.Bundle, correct, incorrect int) Metrics {
	return Measure(correct, incorrect, b.EndedAt.Sub(b.StartedAt))
}

// Smooth replaces each value with the mean of it and up to window-1 predecessors.
func Smooth(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	for i := range values {
		lo := max(0, i-window+1)
		var sum float64
		for _, v := range values[lo : i+1] {
			sum += v
		}
		out[i] = sum / float64(i+1-lo)
	}
	return out
}

var bars = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws one bar per value, scaled to the largest value.
func Sparkline(values []float64) string {
	peak := 0.0
	for _, v := range values {
		peak = math.Max(peak, v)
	}
	top := float64(len(bars) - 1)
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if peak > 0 && v > 0 {
			idx = int(math.Round(v / peak * top))
		}
		b.WriteRune(bars[idx])
	}
	return b.String()
}

// RenderBundle prints the result of one recorded session.
func RenderBundle(w io.Writer, b model.Bundle, correct, incorrect int) error {
	m := BundleMetrics(b, correct, incorrect)

	lines := []string{
		"Result",
		fmt.Sprintf("WPM: %.2f", m.WPM),
		fmt.Sprintf("CPM: %.2f", m.CPM),
		fmt.Sprintf("Accuracy: %.2f%%", m.Accuracy*100),
		fmt.Sprintf("Duration: %s", m.Elapsed.Round(time.Millisecond)),
		fmt.Sprintf("Key events: %d", len(b.KeyEvents)),
	}
	if b.Audio.Empty() {
		lines = append(lines, "Audio: none")
	} else {
		lines = append(lines, fmt.Sprintf("Audio: %s, %d bytes (%s)", b.Audio.Duration().Round(time.Millisecond), len(b.Audio.Bytes), b.Audio.MimeType))
	}
	if rhythm := Rhythm(b.KeyEvents, 1000); len(rhythm) > 1 {
		lines = append(lines, "Rhythm: "+Sparkline(Smooth(rhythm, 3)))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
