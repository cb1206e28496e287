// Package config loads typerec settings from defaults, the TOML file and the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typerec/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice  PracticeConfig  `toml:"practice"`
	Recording RecordingConfig `toml:"recording"`
	Log       LogConfig       `toml:"log"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Lang       *string  `toml:"lang"`
	Words      *int     `toml:"words"`
	CapsPct    *float64 `toml:"caps"`
	PunctPct   *float64 `toml:"punct"`
	PunctSet   *string  `toml:"punct-set"`
	Seconds    *int     `toml:"seconds"`
	PaletteKey *string  `toml:"palette-key"`
}

// RecordingConfig maps keystroke and audio recording settings.
type RecordingConfig struct {
	Keys        *bool   `toml:"keys"`
	Audio       *bool   `toml:"audio"`
	Backend     *string `toml:"backend"`
	FFMPEG      *string `toml:"ffmpeg"`
	InputFormat *string `toml:"input-format"`
	InputDevice *string `toml:"input-device"`
	SampleRate  *int    `toml:"sample-rate"`
	Channels    *int    `toml:"channels"`
	ChunkSize   *int    `toml:"chunk-size"`
}

// LogConfig maps the diagnostic log settings.
type LogConfig struct {
	Path  *string `toml:"path"`
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Apply copies every value set in the file onto cfg.
func (f FileConfig) Apply(cfg *model.Config) {
	setString(&cfg.Lang, f.Practice.Lang)
	setInt(&cfg.Words, f.Practice.Words)
	setFloat(&cfg.CapsPct, f.Practice.CapsPct)
	setFloat(&cfg.PunctPct, f.Practice.PunctPct)
	setString(&cfg.PunctSet, f.Practice.PunctSet)
	if f.Practice.Seconds != nil {
		cfg.Duration = time.Duration(*f.Practice.Seconds) * time.Second
	}
	setString(&cfg.PaletteKey, f.Practice.PaletteKey)

	setBool(&cfg.RecordKeys, f.Recording.Keys)
	setBool(&cfg.RecordAudio, f.Recording.Audio)
	setString(&cfg.Audio.Backend, f.Recording.Backend)
	setString(&cfg.Audio.Command, f.Recording.FFMPEG)
	setString(&cfg.Audio.InputFormat, f.Recording.InputFormat)
	setString(&cfg.Audio.InputDevice, f.Recording.InputDevice)
	setInt(&cfg.Audio.SampleRate, f.Recording.SampleRate)
	setInt(&cfg.Audio.Channels, f.Recording.Channels)
	setInt(&cfg.Audio.ChunkSize, f.Recording.ChunkSize)

	setString(&cfg.Log.Path, f.Log.Path)
	setString(&cfg.Log.Level, f.Log.Level)
}

func setString(target, value *string) {
	if value != nil {
		*target = *value
	}
}

func setInt(target, value *int) {
	if value != nil {
		*target = *value
	}
}

func setFloat(target, value *float64) {
	if value != nil {
		*target = *value
	}
}

func setBool(target, value *bool) {
	if value != nil {
		*target = *value
	}
}
