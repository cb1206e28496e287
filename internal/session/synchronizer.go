// Package session turns clock transitions into one recording lifecycle shared
// by keystroke capture and audio capture.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/typerec/internal/clock"
	"github.com/verte-zerg/typerec/internal/logging"
	"github.com/verte-zerg/typerec/internal/model"
)

// Canceler releases a timer handle.
type Canceler interface {
	Cancel(h clock.Handle)
}

// AudioRecorder is the audio capture path.
type AudioRecorder interface {
	Start(ctx context.Context) bool
	Stop() (model.Artifact, bool)
}

// KeyRecorder is the keystroke timeline path.
type KeyRecorder interface {
	Begin(origin time.Time)
	End() []model.KeyEvent
}

// Sink receives finalized bundles.
type Sink interface {
	Deliver(b model.Bundle)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(b model.Bundle)

// Deliver calls f(b).
func (f SinkFunc) Deliver(b model.Bundle) { f(b) }

// Session is the attempt currently being recorded.
type Session struct {
	ID        string
	Active    bool
	StartedAt time.Time
	Handle    clock.Handle
}

// Options configure a Synchronizer. Zero values are usable.
type Options struct {
	Now    func() time.Time
	Logger *zap.SugaredLogger
	Sink   Sink
	// Format labels the empty artifact produced when no audio was captured.
	Format model.AudioFormat
}

// Synchronizer is the only component that starts and stops the capture paths.
type Synchronizer struct {
	clock  Canceler
	keys   KeyRecorder
	audio  AudioRecorder
	now    func() time.Time
	logger *zap.SugaredLogger
	sink   Sink
	format model.AudioFormat

	current *Session
}

// NewSynchronizer wires the clock and both capture paths. Either path may be nil.
func NewSynchronizer(c Canceler, keys KeyRecorder, audio AudioRecorder, opts Options) *Synchronizer {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	return &Synchronizer{
		clock:  c,
		keys:   keys,
		audio:  audio,
		now:    opts.Now,
		logger: opts.Logger,
		sink:   opts.Sink,
		format: opts.Format,
	}
}

// Current returns a copy of the running session.
func (s *Synchronizer) Current() (Session, bool) {
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Observe reacts to the clock signal. It returns the bundle when the signal
// ends a running session.
func (s *Synchronizer) Observe(ctx context.Context, sig clock.Signal) (model.Bundle, bool) {
	if sig.Active {
		if s.current == nil {
			s.begin(ctx, sig.Handle)
		}
		return model.Bundle{}, false
	}

	if sig.Handle != 0 && s.clock != nil {
		h := sig.Handle
		logging.Guard(s.logger, "clock", func() { s.clock.Cancel(h) })
	}
	if s.current == nil {
		return model.Bundle{}, false
	}
	return s.finish(), true
}

// begin starts the device before reading the origin, so a slow microphone
// does not shift the key timeline against the audio.
func (s *Synchronizer) begin(ctx context.Context, h clock.Handle) {
	keys, audio := false, false
	if s.audio != nil {
		logging.Guard(s.logger, "audio", func() { audio = s.audio.Start(ctx) })
	}

	origin := s.now()
	s.current = &Session{
		ID:        uuid.NewString(),
		Active:    true,
		StartedAt: origin,
		Handle:    h,
	}
	if s.keys != nil {
		keys = logging.Guard(s.logger, "keys", func() { s.keys.Begin(origin) })
	}
	s.logger.Infow("session started",
		"session", s.current.ID,
		"handle", int(h),
		"keys", keys,
		"audio", audio,
	)
}

func (s *Synchronizer) finish() model.Bundle {
	sess := s.current
	s.current = nil

	artifact := model.Artifact{MimeType: model.WAVMimeType, Format: s.format}
	if s.audio != nil {
		logging.Guard(s.logger, "audio", func() {
			if a, ok := s.audio.Stop(); ok {
				artifact = a
			}
		})
	}
	var events []model.KeyEvent
	if s.keys != nil {
		logging.Guard(s.logger, "keys", func() { events = s.keys.End() })
	}
	if events == nil {
		events = []model.KeyEvent{}
	}

	bundle := model.Bundle{
		SessionID: sess.ID,
		StartedAt: sess.StartedAt,
		EndedAt:   s.now(),
		Audio:     artifact,
		KeyEvents: events,
	}
	s.logger.Infow("recording available",
		"session", bundle.SessionID,
		"audio_bytes", len(artifact.Bytes),
		"mime", artifact.MimeType,
		"key_events", len(events),
		"elapsed_ms", bundle.EndedAt.Sub(bundle.StartedAt).Milliseconds(),
	)
	if s.sink != nil {
		logging.Guard(s.logger, "sink", func() { s.sink.Deliver(bundle) })
	}
	return bundle
}
