// Package model defines shared data structures.
package model

import "time"

// Config defines practice and recording settings.
type Config struct {
	Lang     string        `env:"TYPEREC_LANG"`
	Words    int           `env:"TYPEREC_WORDS"`
	CapsPct  float64       `env:"TYPEREC_CAPS"`
	PunctPct float64       `env:"TYPEREC_PUNCT"`
	PunctSet string        `env:"TYPEREC_PUNCT_SET"`
	Duration time.Duration `env:"TYPEREC_DURATION"`

	RecordKeys  bool   `env:"TYPEREC_RECORD_KEYS"`
	RecordAudio bool   `env:"TYPEREC_RECORD_AUDIO"`
	PaletteKey  string `env:"TYPEREC_PALETTE_KEY"`

	Audio AudioConfig
	Log   LogConfig
}

// AudioConfig describes how the microphone is captured.
type AudioConfig struct {
	Backend     string `env:"TYPEREC_AUDIO_BACKEND"`
	Command     string `env:"TYPEREC_FFMPEG_COMMAND"`
	InputFormat string `env:"TYPEREC_AUDIO_INPUT_FORMAT"`
	InputDevice string `env:"TYPEREC_AUDIO_INPUT_DEVICE"`
	SampleRate  int    `env:"TYPEREC_SAMPLE_RATE"`
	Channels    int    `env:"TYPEREC_CHANNELS"`
	ChunkSize   int    `env:"TYPEREC_AUDIO_CHUNK_SIZE"`
}

// LogConfig controls the diagnostic log file.
type LogConfig struct {
	Path  string `env:"TYPEREC_LOG_PATH"`
	Level string `env:"TYPEREC_LOG_LEVEL"`
}

// Direction is the edge of a key event.
type Direction string

const (
	KeyDown Direction = "keydown"
	KeyUp   Direction = "keyup"
)

// KeyEvent is one entry of a session keystroke timeline.
type KeyEvent struct {
	Direction  Direction `json:"type"`
	Key        string    `json:"key"`
	RelativeMs int64     `json:"timestamp"`
}

// AudioFormat describes raw PCM carried by an artifact.
type AudioFormat struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// WAVMimeType labels recorded audio artifacts.
const WAVMimeType = "audio/wav"

// Artifact is the audio of one session: chunks concatenated in arrival order.
type Artifact struct {
	Bytes    []byte
	MimeType string
	Format   AudioFormat
}

// Empty reports whether the artifact carries no audio.
func (a Artifact) Empty() bool {
	return len(a.Bytes) == 0
}

// Duration derives the clip length from the PCM format.
func (a Artifact) Duration() time.Duration {
	frame := a.Format.Channels * a.Format.BitDepth / 8
	if frame <= 0 || a.Format.SampleRate <= 0 {
		return 0
	}
	frames := len(a.Bytes) / frame
	return time.Duration(frames) * time.Second / time.Duration(a.Format.SampleRate)
}

// Bundle is the finalized output of one recorded session.
type Bundle struct {
	SessionID string
	StartedAt time.Time
	EndedAt   time.Time
	Audio     Artifact
	KeyEvents []KeyEvent
}
