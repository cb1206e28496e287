package audio

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/typerec/internal/model"
)

// Backend names accepted in configuration.
const (
	BackendFFMPEG = "ffmpeg"
	BackendNone   = "none"
)

// NewAcquirer picks the capture backend named in cfg.
// Unknown or disabled backends yield an acquirer that reports ErrUnsupported.
func NewAcquirer(cfg model.AudioConfig) (Acquirer, model.AudioFormat) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendFFMPEG:
		ff := NewFFMPEG(cfg)
		return ff, ff.Format()
	case BackendNone:
		return Unavailable("audio backend disabled"), model.AudioFormat{}
	default:
		return Unavailable(fmt.Sprintf("unknown audio backend %q", cfg.Backend)), model.AudioFormat{}
	}
}
