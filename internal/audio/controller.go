package audio

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"go.uber.org/zap"

	"github.com/verte-zerg/typerec/internal/logging"
	"github.com/verte-zerg/typerec/internal/model"
)

// State is the controller lifecycle: idle -> armed -> recording -> armed.
type State string

const (
	StateIdle      State = "idle"
	StateArmed     State = "armed"
	StateRecording State = "recording"
)

const defaultChunkSize = 4096

// Controller owns the microphone handle and the chunk buffer of the running recording.
type Controller struct {
	acquirer  Acquirer
	format    model.AudioFormat
	chunkSize int
	logger    *zap.SugaredLogger

	mu       sync.Mutex
	state    State
	disabled bool
	mic      Microphone
	current  *recording
}

type recording struct {
	stream Stream
	chunks [][]byte
	done   chan struct{}
	err    error
}

// NewController returns an idle controller.
func NewController(acquirer Acquirer, format model.AudioFormat, chunkSize int, logger *zap.SugaredLogger) *Controller {
	if chunkSize < 256 {
		chunkSize = defaultChunkSize
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Controller{
		acquirer:  acquirer,
		format:    format,
		chunkSize: chunkSize,
		logger:    logger,
		state:     StateIdle,
	}
}

// Arm requests the microphone once. On failure the controller stays idle for good.
func (c *Controller) Arm(ctx context.Context) State {
	c.mu.Lock()
	if c.state != StateIdle || c.disabled {
		state := c.state
		c.mu.Unlock()
		return state
	}
	// Block concurrent arms while the request is pending.
	c.disabled = true
	c.mu.Unlock()

	mic, err := c.acquirer.Acquire(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		switch {
		case errors.Is(err, ErrUnsupported):
			c.logger.Warnw("audio capture unsupported", "error", err)
		case errors.Is(err, ErrDenied):
			c.logger.Warnw("microphone permission denied", "error", err)
		default:
			c.logger.Errorw("microphone request failed", "error", err)
		}
		return c.state
	}
	c.disabled = false
	c.mic = mic
	c.state = StateArmed
	c.logger.Infow("microphone armed", "sample_rate", c.format.SampleRate, "channels", c.format.Channels)
	return c.state
}

// Start begins recording if armed and not already recording.
func (c *Controller) Start(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateArmed {
		return false
	}
	stream, err := c.mic.Start(ctx)
	if err != nil {
		c.logger.Errorw("failed to start audio recording", "error", err)
		return false
	}
	rec := &recording{stream: stream, done: make(chan struct{})}
	c.current = rec
	c.state = StateRecording
	go c.pump(rec)
	c.logger.Infow("audio recording started")
	return true
}

// Stop ends the recording and assembles every buffered chunk into one artifact.
// It reports false when nothing was recording.
func (c *Controller) Stop() (model.Artifact, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateRecording {
		return model.Artifact{}, false
	}
	rec := c.current
	if err := rec.stream.Stop(); err != nil {
		c.logger.Warnw("audio stream did not stop cleanly", "error", err)
	}
	<-rec.done
	if err := rec.stream.Close(); err != nil {
		c.logger.Debugw("audio stream close", "error", err)
	}
	if rec.err != nil {
		c.logger.Warnw("audio capture error", "error", rec.err)
	}

	artifact := Assemble(rec.chunks, c.format)
	rec.chunks = nil
	c.current = nil
	c.state = StateArmed
	return artifact, true
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Format returns the PCM format of produced artifacts.
func (c *Controller) Format() model.AudioFormat {
	return c.format
}

// Close stops any recording and releases the microphone.
func (c *Controller) Close() error {
	c.Stop()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mic == nil {
		return nil
	}
	err := c.mic.Close()
	c.mic = nil
	c.state = StateIdle
	c.disabled = true
	return err
}

// pump is the only writer of rec.chunks until rec.done is closed.
func (c *Controller) pump(rec *recording) {
	defer close(rec.done)
	buf := make([]byte, c.chunkSize)
	for {
		n, err := rec.stream.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			rec.chunks = append(rec.chunks, chunk)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, os.ErrClosed) {
				rec.err = err
			}
			return
		}
	}
}

// Assemble concatenates chunks in order into one artifact.
func Assemble(chunks [][]byte, format model.AudioFormat) model.Artifact {
	total := 0
	for _, chunk := range chunks {
		total += len(chunk)
	}
	out := make([]byte, 0, total)
	for _, chunk := range chunks {
		out = append(out, chunk...)
	}
	return model.Artifact{Bytes: out, MimeType: model.WAVMimeType, Format: format}
}
