package config

import (
	"fmt"
	"time"

	"github.com/verte-zerg/typerec/internal/model"
)

const (
	DefaultLang       = "en"
	DefaultWords      = 25
	DefaultCaps       = 0.5
	DefaultPunct      = 0.5
	DefaultSeconds    = 30
	DefaultPaletteKey = "ctrl+k"
	DefaultBackend    = "ffmpeg"
	DefaultLogLevel   = "info"
)

// DefaultPunctSet is the punctuation sprinkled into generated text.
const DefaultPunctSet = ".,!?;:\"'{}()[]-=/<>`"

// Defaults returns the built-in configuration.
func Defaults() model.Config {
	return model.Config{
		Lang:        DefaultLang,
		Words:       DefaultWords,
		CapsPct:     DefaultCaps,
		PunctPct:    DefaultPunct,
		PunctSet:    DefaultPunctSet,
		Duration:    DefaultSeconds * time.Second,
		RecordKeys:  true,
		RecordAudio: true,
		PaletteKey:  DefaultPaletteKey,
		Audio: model.AudioConfig{
			Backend:     DefaultBackend,
			Command:     "ffmpeg",
			InputFormat: "pulse",
			InputDevice: "default",
			SampleRate:  16000,
			Channels:    1,
			ChunkSize:   4096,
		},
		Log: model.LogConfig{
			Path:  DefaultLogPath(),
			Level: DefaultLogLevel,
		},
	}
}

// Validate reports the first invalid setting using flag names.
func Validate(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.Duration < time.Second {
		return fmt.Errorf("--seconds must be > 0")
	}
	if cfg.PaletteKey == "" {
		return fmt.Errorf("--palette-key must not be empty")
	}
	if cfg.Audio.SampleRate <= 0 {
		return fmt.Errorf("--sample-rate must be > 0")
	}
	if cfg.Audio.Channels <= 0 {
		return fmt.Errorf("--channels must be > 0")
	}
	return nil
}

// Template renders a commented config file.
func Template() string {
	d := Defaults()
	return fmt.Sprintf(`# typerec configuration
# Uncomment a value to enable it. Environment (TYPEREC_*) overrides the file,
# CLI flags override both.

[practice]
# lang = %q               # Language code
# words = %d              # Words per text
# caps = %.2f             # Probability of capitalized first letter (0-1)
# punct = %.2f            # Punctuation probability per word (0-1)
# punct-set = %q          # Punctuation set
# seconds = %d            # Countdown length
# palette-key = %q        # Command palette binding

[recording]
# keys = true             # Record the keystroke timeline
# audio = true            # Record microphone audio
# backend = %q            # ffmpeg or none
# ffmpeg = %q             # ffmpeg executable
# input-format = %q       # ffmpeg input format (pulse, alsa, avfoundation, dshow)
# input-device = %q       # ffmpeg input device
# sample-rate = %d        # Hz
# channels = %d
# chunk-size = %d         # Bytes per captured chunk

[log]
# path = %q
# level = %q
`,
		d.Lang,
		d.Words,
		d.CapsPct,
		d.PunctPct,
		d.PunctSet,
		DefaultSeconds,
		d.PaletteKey,
		d.Audio.Backend,
		d.Audio.Command,
		d.Audio.InputFormat,
		d.Audio.InputDevice,
		d.Audio.SampleRate,
		d.Audio.Channels,
		d.Audio.ChunkSize,
		d.Log.Path,
		d.Log.Level,
	)
}
