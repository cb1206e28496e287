package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/typerec/internal/model"
)

func sampleEvents() []model.KeyEvent {
	return []model.KeyEvent{
		{Direction: model.KeyDown, Key: "a", RelativeMs: 0},
		{Direction: model.KeyUp, Key: "a", RelativeMs: 40},
		{Direction: model.KeyDown, Key: " ", RelativeMs: 100},
		{Direction: model.KeyDown, Key: "a", RelativeMs: 300},
		{Direction: model.KeyDown, Key: "Backspace", RelativeMs: 1500},
	}
}

func TestSummarizeKeys(t *testing.T) {
	summary := SummarizeKeys(sampleEvents())
	if len(summary) != 3 {
		t.Fatalf("expected 3 keys, got %d", len(summary))
	}
	if summary[0].Key != "a" || summary[0].Presses != 2 {
		t.Fatalf("expected a first with 2 presses, got %+v", summary[0])
	}
	if summary[0].MeanGapMs != 200 {
		t.Fatalf("expected mean gap 200ms for a, got %.1f", summary[0].MeanGapMs)
	}
	if summary[1].Key != " " || summary[2].Key != "Backspace" {
		t.Fatalf("unexpected order: %+v", summary)
	}
	if summary[2].MeanGapMs != 1200 {
		t.Fatalf("expected backspace gap 1200ms, got %.1f", summary[2].MeanGapMs)
	}
}

func TestRhythmBuckets(t *testing.T) {
	rhythm := Rhythm(sampleEvents(), 1000)
	if len(rhythm) != 2 || rhythm[0] != 3 || rhythm[1] != 1 {
		t.Fatalf("unexpected rhythm %v", rhythm)
	}
	if Rhythm(nil, 1000) != nil {
		t.Fatalf("expected nil rhythm for no events")
	}
}

func TestRenderTimelineLimit(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTimeline(&buf, sampleEvents(), 2); err != nil {
		t.Fatalf("render: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected title, header and 2 rows, got %q", buf.String())
	}
	if lines[1] != "# Time (ms) Type    Key      " {
		t.Fatalf("unexpected header %q", lines[1])
	}
	if lines[2] != "4       300 keydown a        " {
		t.Fatalf("unexpected row %q", lines[2])
	}
	if lines[3] != "5      1500 keydown Backspace" {
		t.Fatalf("unexpected row %q", lines[3])
	}
}

func TestRenderTimelineEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderTimeline(&buf, nil, 10); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.String() != "No key events recorded.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestRenderKeySummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderKeySummary(&buf, SummarizeKeys(sampleEvents())); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<space>") || !strings.Contains(out, "Avg Gap (ms)") {
		t.Fatalf("missing expected content: %s", out)
	}
}

func TestRenderBundle(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := model.Bundle{
		StartedAt: start,
		EndedAt:   start.Add(60 * time.Second),
		Audio: model.Artifact{
			Bytes:    make([]byte, 32000),
			MimeType: model.WAVMimeType,
			Format:   model.AudioFormat{SampleRate: 16000, Channels: 1, BitDepth: 16},
		},
		KeyEvents: sampleEvents(),
	}
	var buf bytes.Buffer
	if err := RenderBundle(&buf, b, 250, 10); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"WPM: 50.00", "Accuracy: 96.15%", "Key events: 5", "Audio: 1s, 32000 bytes (audio/wav)", "Rhythm: "} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %s", want, out)
		}
	}

	b.Audio = model.Artifact{}
	buf.Reset()
	if err := RenderBundle(&buf, b, 0, 0); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Audio: none") {
		t.Fatalf("expected no-audio line: %s", buf.String())
	}
}
