package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typerec/internal/audio"
	"github.com/verte-zerg/typerec/internal/clock"
	"github.com/verte-zerg/typerec/internal/logging"
	"github.com/verte-zerg/typerec/internal/model"
	"github.com/verte-zerg/typerec/internal/review"
	"github.com/verte-zerg/typerec/internal/session"
)

var (
	micSeconds int
	micPlay    bool
)

func newMicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mic",
		Short: "Check the microphone and record a short clip",
		Args:  cobra.NoArgs,
		RunE:  runMicCmd,
	}
	cmd.Flags().IntVar(&micSeconds, "record", 3, "seconds to record (0 only arms the microphone)")
	cmd.Flags().BoolVar(&micPlay, "play", false, "play the clip back")
	return cmd
}

func runMicCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.Log.Path, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer syncLogger(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	ctrl := newAudioController(cfg, logger)
	defer func() {
		if cerr := ctrl.Close(); cerr != nil {
			logErrf("failed to release microphone: %v\n", cerr)
		}
	}()

	logErrf("Requesting microphone (%s)...\n", cfg.Audio.Backend)
	if ctrl.Arm(ctx) != audio.StateArmed {
		return fmt.Errorf("microphone unavailable, details in %s", cfg.Log.Path)
	}
	format := ctrl.Format()
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "Microphone armed: %d Hz, %d channel(s), %d-bit\n", format.SampleRate, format.Channels, format.BitDepth); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if micSeconds <= 0 {
		return nil
	}

	logErrf("Recording %ds, press Ctrl+C to stop early...\n", micSeconds)
	bundle, err := recordClip(ctx, ctrl, format, time.Duration(micSeconds)*time.Second, logger)
	if err != nil {
		return err
	}
	if err := printClip(cmd, bundle); err != nil {
		return err
	}

	if !micPlay {
		return nil
	}
	logErrln("Playing back...")
	// The interrupt context may already be done after an early stop.
	if err := review.NewSpeaker().Play(cmd.Context(), bundle.Audio); err != nil {
		if errors.Is(err, review.ErrNoAudio) {
			logErrln("Nothing was captured.")
			return nil
		}
		return fmt.Errorf("failed to play recording: %w", err)
	}
	return nil
}

// recordClip runs one audio-only session on a countdown, outside the TUI.
func recordClip(ctx context.Context, rec session.AudioRecorder, format model.AudioFormat, d time.Duration, logger *zap.SugaredLogger) (model.Bundle, error) {
	countdown := clock.NewCountdown(d, clock.DefaultInterval)
	sync := session.NewSynchronizer(countdown, nil, rec, session.Options{Logger: logger, Format: format})

	countdown.Start()
	sync.Observe(ctx, countdown.Signal())

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}

	countdown.Stop()
	bundle, ok := sync.Observe(context.Background(), countdown.Signal())
	if !ok {
		return model.Bundle{}, fmt.Errorf("recording session did not start")
	}
	return bundle, nil
}

func printClip(cmd *cobra.Command, b model.Bundle) error {
	out := cmd.OutOrStdout()
	lines := []string{
		fmt.Sprintf("Session: %s", b.SessionID),
		fmt.Sprintf("Elapsed: %s", b.EndedAt.Sub(b.StartedAt).Round(time.Millisecond)),
	}
	if b.Audio.Empty() {
		lines = append(lines, "Audio: none captured")
	} else {
		lines = append(lines, fmt.Sprintf("Audio: %s, %d bytes (%s)", b.Audio.Duration().Round(time.Millisecond), len(b.Audio.Bytes), b.Audio.MimeType))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
