package stats

import (
	"math"
	"testing"
	"time"
)

func TestMeasure(t *testing.T) {
	m := Measure(250, 10, time.Minute)
	if m.WPM != 50 || m.CPM != 250 {
		t.Fatalf("unexpected speed %+v", m)
	}
	if math.Abs(m.Accuracy-250.0/260.0) > 1e-9 {
		t.Fatalf("unexpected accuracy %v", m.Accuracy)
	}

	m = Measure(3, 1, 0)
	if m.WPM != 0 || m.CPM != 0 || m.Accuracy != 0.75 {
		t.Fatalf("expected accuracy only without elapsed time, got %+v", m)
	}
}

func TestSmoothTrailingWindow(t *testing.T) {
	got := Smooth([]float64{3, 0, 3, 6}, 2)
	want := []float64{3, 1.5, 1.5, 4.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	if got := Smooth([]float64{1, 2}, 0); got[0] != 1 || got[1] != 2 {
		t.Fatalf("window below one must keep values, got %v", got)
	}
}

func TestSparklineScalesToPeak(t *testing.T) {
	if got := Sparkline([]float64{0, 4, 8}); got != "▁▅█" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{0, 0}); got != "▁▁" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}
