package audio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/typerec/internal/model"
)

var testFormat = model.AudioFormat{SampleRate: 16000, Channels: 1, BitDepth: 16}

// fakeStream yields its chunks one Read at a time, then blocks until Stop.
type fakeStream struct {
	mu      sync.Mutex
	chunks  [][]byte
	stopped chan struct{}
	once    sync.Once
	stops   int
}

func newFakeStream(chunks ...[]byte) *fakeStream {
	return &fakeStream{chunks: chunks, stopped: make(chan struct{})}
}

func (s *fakeStream) Read(p []byte) (int, error) {
	s.mu.Lock()
	if len(s.chunks) > 0 {
		chunk := s.chunks[0]
		s.chunks = s.chunks[1:]
		s.mu.Unlock()
		return copy(p, chunk), nil
	}
	s.mu.Unlock()
	<-s.stopped
	return 0, io.EOF
}

func (s *fakeStream) Stop() error {
	s.mu.Lock()
	s.stops++
	s.mu.Unlock()
	s.once.Do(func() { close(s.stopped) })
	return nil
}

func (s *fakeStream) Close() error { return s.Stop() }

type fakeMic struct {
	streams []*fakeStream
	starts  int
	closed  bool
}

func (m *fakeMic) Start(context.Context) (Stream, error) {
	if m.starts >= len(m.streams) {
		return nil, errors.New("no more streams")
	}
	s := m.streams[m.starts]
	m.starts++
	return s, nil
}

func (m *fakeMic) Close() error {
	m.closed = true
	return nil
}

func micAcquirer(mic *fakeMic) Acquirer {
	return AcquirerFunc(func(context.Context) (Microphone, error) { return mic, nil })
}

func failingAcquirer(err error) (Acquirer, *int) {
	calls := 0
	return AcquirerFunc(func(context.Context) (Microphone, error) {
		calls++
		return nil, err
	}), &calls
}

func TestControllerRecordsChunksInOrder(t *testing.T) {
	t.Parallel()

	stream := newFakeStream([]byte("ab"), []byte("cde"), []byte("f"))
	mic := &fakeMic{streams: []*fakeStream{stream}}
	c := NewController(micAcquirer(mic), testFormat, 0, nil)

	if got := c.Arm(context.Background()); got != StateArmed {
		t.Fatalf("expected armed, got %s", got)
	}
	if !c.Start(context.Background()) {
		t.Fatalf("expected recording to start")
	}
	if c.Start(context.Background()) {
		t.Fatalf("second start must be a no-op")
	}
	if mic.starts != 1 {
		t.Fatalf("expected exactly one device start, got %d", mic.starts)
	}

	artifact, ok := c.Stop()
	if !ok {
		t.Fatalf("expected stop to produce an artifact")
	}
	if string(artifact.Bytes) != "abcdef" || len(artifact.Bytes) != 6 {
		t.Fatalf("unexpected artifact bytes %q", artifact.Bytes)
	}
	if artifact.MimeType != model.WAVMimeType || artifact.Format != testFormat {
		t.Fatalf("unexpected artifact metadata: %+v", artifact)
	}
	if _, ok := c.Stop(); ok {
		t.Fatalf("second stop must be a no-op")
	}
	if c.State() != StateArmed {
		t.Fatalf("expected controller re-armed, got %s", c.State())
	}
}

func TestControllerRearmsForNextSession(t *testing.T) {
	t.Parallel()

	mic := &fakeMic{streams: []*fakeStream{newFakeStream([]byte("one")), newFakeStream([]byte("two"))}}
	c := NewController(micAcquirer(mic), testFormat, 256, nil)
	c.Arm(context.Background())

	c.Start(context.Background())
	first, _ := c.Stop()
	c.Start(context.Background())
	second, _ := c.Stop()
	if string(first.Bytes) != "one" || string(second.Bytes) != "two" {
		t.Fatalf("chunks leaked across sessions: %q %q", first.Bytes, second.Bytes)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if !mic.closed || c.State() != StateIdle {
		t.Fatalf("expected microphone released")
	}
}

func TestControllerStopWithoutChunksYieldsEmptyArtifact(t *testing.T) {
	t.Parallel()

	c := NewController(micAcquirer(&fakeMic{streams: []*fakeStream{newFakeStream()}}), testFormat, 0, nil)
	c.Arm(context.Background())
	c.Start(context.Background())
	artifact, ok := c.Stop()
	if !ok || !artifact.Empty() {
		t.Fatalf("expected empty artifact, got ok=%v len=%d", ok, len(artifact.Bytes))
	}
}

func TestControllerDeniedStaysIdle(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	acq, calls := failingAcquirer(ErrDenied)
	c := NewController(acq, testFormat, 0, zap.New(core).Sugar())

	if got := c.Arm(context.Background()); got != StateIdle {
		t.Fatalf("expected idle after denial, got %s", got)
	}
	c.Arm(context.Background())
	if *calls != 1 {
		t.Fatalf("expected no retry, got %d acquire calls", *calls)
	}
	if c.Start(context.Background()) {
		t.Fatalf("start must be a no-op while idle")
	}
	if _, ok := c.Stop(); ok {
		t.Fatalf("stop must be a no-op while idle")
	}
	if logs.FilterMessage("microphone permission denied").Len() != 1 {
		t.Fatalf("expected permission denied diagnostic")
	}
}

func TestControllerUnsupportedIsLogged(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	c := NewController(Unavailable("no backend"), testFormat, 0, zap.New(core).Sugar())
	c.Arm(context.Background())
	if c.State() != StateIdle {
		t.Fatalf("expected idle")
	}
	if logs.FilterMessage("audio capture unsupported").Len() != 1 {
		t.Fatalf("expected unsupported diagnostic")
	}
}

func TestControllerStartFailureStaysArmed(t *testing.T) {
	t.Parallel()

	c := NewController(micAcquirer(&fakeMic{}), testFormat, 0, nil)
	c.Arm(context.Background())
	if c.Start(context.Background()) {
		t.Fatalf("expected start to fail without streams")
	}
	if c.State() != StateArmed {
		t.Fatalf("expected armed after failed start, got %s", c.State())
	}
}

func TestAssembleLengthIsSumOfChunks(t *testing.T) {
	t.Parallel()

	chunks := [][]byte{bytes.Repeat([]byte{1}, 10), bytes.Repeat([]byte{2}, 7), {}, bytes.Repeat([]byte{3}, 5)}
	artifact := Assemble(chunks, testFormat)
	if len(artifact.Bytes) != 22 {
		t.Fatalf("expected 22 bytes, got %d", len(artifact.Bytes))
	}
	if artifact.Bytes[0] != 1 || artifact.Bytes[10] != 2 || artifact.Bytes[21] != 3 {
		t.Fatalf("chunk order not preserved")
	}
	if empty := Assemble(nil, testFormat); !empty.Empty() || empty.MimeType != model.WAVMimeType {
		t.Fatalf("expected empty wav artifact, got %+v", empty)
	}
}
