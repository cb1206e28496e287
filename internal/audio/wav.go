package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/verte-zerg/typerec/internal/model"
)

// ErrEmptyArtifact is returned when there is no audio to encode.
var ErrEmptyArtifact = errors.New("audio artifact is empty")

const wavFormatPCM = 1

// EncodeWAV wraps the artifact's s16le PCM in a RIFF/WAVE container.
func EncodeWAV(a model.Artifact) ([]byte, error) {
	if a.Empty() {
		return nil, ErrEmptyArtifact
	}
	if a.Format.BitDepth != 16 {
		return nil, fmt.Errorf("unsupported bit depth %d", a.Format.BitDepth)
	}
	if a.Format.SampleRate <= 0 || a.Format.Channels <= 0 {
		return nil, fmt.Errorf("invalid audio format %+v", a.Format)
	}

	samples := make([]int, len(a.Bytes)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(a.Bytes[2*i:])))
	}

	out := &memWriteSeeker{}
	enc := wav.NewEncoder(out, a.Format.SampleRate, a.Format.BitDepth, a.Format.Channels, wavFormatPCM)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: a.Format.Channels, SampleRate: a.Format.SampleRate},
		Data:           samples,
		SourceBitDepth: a.Format.BitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize wav: %w", err)
	}
	return out.buf, nil
}

// memWriteSeeker is the io.WriteSeeker the WAV encoder needs to patch its header.
type memWriteSeeker struct {
	buf []byte
	pos int
}

func (w *memWriteSeeker) Write(p []byte) (int, error) {
	end := w.pos + len(p)
	if end > len(w.buf) {
		w.buf = append(w.buf, make([]byte, end-len(w.buf))...)
	}
	copy(w.buf[w.pos:], p)
	w.pos = end
	return len(p), nil
}

func (w *memWriteSeeker) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = int64(w.pos) + offset
	case io.SeekEnd:
		abs = int64(len(w.buf)) + offset
	default:
		return 0, fmt.Errorf("invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("negative position %d", abs)
	}
	w.pos = int(abs)
	return abs, nil
}
