// Package review plays back the audio of a finished recording.
package review

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/verte-zerg/typerec/internal/audio"
	"github.com/verte-zerg/typerec/internal/model"
)

// ErrNoAudio is returned when a bundle carries no audio.
var ErrNoAudio = errors.New("recording has no audio")

// Player plays an artifact until it ends or ctx is done.
type Player interface {
	Play(ctx context.Context, a model.Artifact) error
}

// Speaker plays through the default output device.
type Speaker struct{ volumeDB float64 }

// NewSpeaker creates a player without volume change (0 dB).
func NewSpeaker() *Speaker { return &Speaker{} }

// NewSpeakerWithVolume creates a player with a volume offset in dB (negative is quieter).
func NewSpeakerWithVolume(db float64) *Speaker { return &Speaker{volumeDB: db} }

// Play blocks until playback finishes or ctx is cancelled.
func (s *Speaker) Play(ctx context.Context, a model.Artifact) error {
	if a.Empty() {
		return ErrNoAudio
	}
	data, err := audio.EncodeWAV(a)
	if err != nil {
		return err
	}
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to decode recording: %w", err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to open speaker: %w", err)
	}
	vol := &effects.Volume{
		Streamer: streamer,
		Base:     2,
		Volume:   s.volumeDB,
	}
	done := make(chan struct{})
	speaker.Play(beep.Seq(vol, beep.Callback(func() { close(done) })))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
