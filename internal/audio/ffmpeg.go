package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"time"

	"github.com/verte-zerg/typerec/internal/model"
)

const (
	probeTimeout    = 3 * time.Second
	startupWindow   = 250 * time.Millisecond
	stopGracePeriod = 1200 * time.Millisecond
)

// FFMPEG captures the microphone by running ffmpeg and reading s16le PCM from its stdout.
type FFMPEG struct {
	cfg model.AudioConfig
}

// NewFFMPEG returns an ffmpeg-backed acquirer with defaults filled in.
func NewFFMPEG(cfg model.AudioConfig) *FFMPEG {
	if cfg.Command == "" {
		cfg.Command = "ffmpeg"
	}
	if cfg.InputFormat == "" {
		cfg.InputFormat = "pulse"
	}
	if cfg.InputDevice == "" {
		cfg.InputDevice = "default"
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 16000
	}
	if cfg.Channels <= 0 {
		cfg.Channels = 1
	}
	return &FFMPEG{cfg: cfg}
}

// Format describes the PCM produced by this backend.
func (f *FFMPEG) Format() model.AudioFormat {
	return model.AudioFormat{SampleRate: f.cfg.SampleRate, Channels: f.cfg.Channels, BitDepth: 16}
}

// Acquire checks that ffmpeg exists and that the input device can be opened.
func (f *FFMPEG) Acquire(ctx context.Context) (Microphone, error) {
	path, err := exec.LookPath(f.cfg.Command)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found: %v", ErrUnsupported, f.cfg.Command, err)
	}

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()
	args := append(f.inputArgs(), "-t", "0.05", "-f", "null", "-")
	cmd := exec.CommandContext(probeCtx, path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrDenied, f.cfg.InputDevice, err, trimSpace(stderr.String()))
	}
	return &ffmpegMicrophone{path: path, args: append(f.inputArgs(), "-f", "s16le", "-")}, nil
}

func (f *FFMPEG) inputArgs() []string {
	return []string{
		"-nostdin",
		"-hide_banner",
		"-loglevel", "warning",
		"-f", f.cfg.InputFormat,
		"-i", f.cfg.InputDevice,
		"-ac", strconv.Itoa(f.cfg.Channels),
		"-ar", strconv.Itoa(f.cfg.SampleRate),
	}
}

type ffmpegMicrophone struct {
	path string
	args []string
}

func (m *ffmpegMicrophone) Start(ctx context.Context) (Stream, error) {
	cmd := exec.CommandContext(ctx, m.path, m.args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	// A plain pipe instead of StdoutPipe: Wait must not close the read end
	// before the pump has drained what ffmpeg flushed on interrupt.
	stdout, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create ffmpeg stdout pipe: %w", err)
	}
	cmd.Stdout = stdoutW
	if err := cmd.Start(); err != nil {
		_ = stdout.Close()
		_ = stdoutW.Close()
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}
	_ = stdoutW.Close()

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	select {
	case err := <-waitErr:
		_ = stdout.Close()
		if err != nil {
			return nil, fmt.Errorf("ffmpeg exited before capture started: %w: %s", err, trimSpace(stderr.String()))
		}
		return nil, errors.New("ffmpeg exited before capture started")
	case <-time.After(startupWindow):
	}

	return &ffmpegStream{
		stdout:  stdout,
		stderr:  &stderr,
		process: cmd.Process,
		waitErr: waitErr,
	}, nil
}

// Close is a no-op: every stream owns its own ffmpeg process.
func (m *ffmpegMicrophone) Close() error {
	return nil
}

type ffmpegStream struct {
	stdout  *os.File
	stderr  *bytes.Buffer
	process *os.Process
	waitErr <-chan error

	stopOnce sync.Once
	stopErr  error
}

func (s *ffmpegStream) Read(p []byte) (int, error) {
	return s.stdout.Read(p)
}

func (s *ffmpegStream) Close() error {
	stopErr := s.Stop()
	if err := s.stdout.Close(); err != nil && !errors.Is(err, os.ErrClosed) && stopErr == nil {
		return err
	}
	return stopErr
}

// Stop interrupts ffmpeg so it flushes, and kills it if it does not exit in time.
func (s *ffmpegStream) Stop() error {
	s.stopOnce.Do(func() {
		if s.process != nil {
			_ = s.process.Signal(os.Interrupt)
		}

		select {
		case err, ok := <-s.waitErr:
			if ok {
				s.stopErr = normalizeStopErr(err)
			}
		case <-time.After(stopGracePeriod):
			if s.process != nil {
				_ = s.process.Kill()
			}
			if err, ok := <-s.waitErr; ok {
				s.stopErr = normalizeStopErr(err)
			}
		}

		if s.stopErr != nil && s.stderr != nil && s.stderr.Len() > 0 {
			s.stopErr = fmt.Errorf("%w: %s", s.stopErr, trimSpace(s.stderr.String()))
		}
	})
	return s.stopErr
}

func normalizeStopErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

func trimSpace(input string) string {
	if input == "" {
		return input
	}
	return string(bytes.TrimSpace([]byte(input)))
}
