package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/go-audio/wav"

	"github.com/verte-zerg/typerec/internal/model"
)

func TestEncodeWAVRoundTrip(t *testing.T) {
	pcm := make([]byte, 0, 3200)
	for i := 0; i < 1600; i++ {
		pcm = binary.LittleEndian.AppendUint16(pcm, uint16(int16(i-800)))
	}
	artifact := model.Artifact{Bytes: pcm, MimeType: model.WAVMimeType, Format: testFormat}
	if artifact.Duration() != 100*time.Millisecond {
		t.Fatalf("expected 100ms clip, got %v", artifact.Duration())
	}

	data, err := EncodeWAV(artifact)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Fatalf("expected RIFF header")
	}

	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		t.Fatalf("expected valid wav")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if buf.Format.SampleRate != 16000 || buf.Format.NumChannels != 1 {
		t.Fatalf("unexpected decoded format: %+v", buf.Format)
	}
	if len(buf.Data) != 1600 || buf.Data[0] != -800 || buf.Data[1599] != 799 {
		t.Fatalf("unexpected decoded samples: len=%d first=%d last=%d", len(buf.Data), buf.Data[0], buf.Data[len(buf.Data)-1])
	}
}

func TestEncodeWAVRejectsEmptyAndBadFormat(t *testing.T) {
	if _, err := EncodeWAV(model.Artifact{Format: testFormat}); !errors.Is(err, ErrEmptyArtifact) {
		t.Fatalf("expected ErrEmptyArtifact, got %v", err)
	}
	bad := model.Artifact{Bytes: []byte{1, 2}, Format: model.AudioFormat{SampleRate: 16000, Channels: 1, BitDepth: 24}}
	if _, err := EncodeWAV(bad); err == nil {
		t.Fatalf("expected bit depth error")
	}
}

func TestMemWriteSeekerOverwrite(t *testing.T) {
	w := &memWriteSeeker{}
	_, _ = w.Write([]byte("abcdef"))
	if _, err := w.Seek(2, 0); err != nil {
		t.Fatalf("seek: %v", err)
	}
	_, _ = w.Write([]byte("XY"))
	if _, err := w.Seek(0, 2); err != nil {
		t.Fatalf("seek end: %v", err)
	}
	_, _ = w.Write([]byte("!"))
	if string(w.buf) != "abXYef!" {
		t.Fatalf("unexpected buffer %q", w.buf)
	}
	if _, err := w.Seek(-100, 1); err == nil {
		t.Fatalf("expected negative seek error")
	}
}
