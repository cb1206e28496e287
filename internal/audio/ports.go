// Package audio owns microphone capture for practice sessions.
package audio

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrUnsupported means no capture backend is available in this environment.
	ErrUnsupported = errors.New("audio capture unsupported")
	// ErrDenied means the microphone exists but could not be opened.
	ErrDenied = errors.New("microphone access denied")
)

// Stream is a live capture. Read yields raw PCM; after Stop, Read drains and returns io.EOF.
type Stream interface {
	io.ReadCloser
	Stop() error
}

// Microphone is an acquired capture device that can start any number of streams.
type Microphone interface {
	Start(ctx context.Context) (Stream, error)
	Close() error
}

// Acquirer requests access to a microphone.
type Acquirer interface {
	Acquire(ctx context.Context) (Microphone, error)
}

// AcquirerFunc adapts a function to Acquirer.
type AcquirerFunc func(ctx context.Context) (Microphone, error)

// Acquire implements Acquirer.
func (f AcquirerFunc) Acquire(ctx context.Context) (Microphone, error) {
	return f(ctx)
}

// Unavailable is an Acquirer for environments without audio capture.
func Unavailable(reason string) Acquirer {
	return AcquirerFunc(func(context.Context) (Microphone, error) {
		if reason == "" {
			return nil, ErrUnsupported
		}
		return nil, errors.Join(ErrUnsupported, errors.New(reason))
	})
}
