package input

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/typerec/internal/logging"
	"github.com/verte-zerg/typerec/internal/model"
)

// Capture records every key edge of a session into a timeline relative to the
// session origin. It is subscribed to its source only while recording is
// enabled and a session is running.
type Capture struct {
	source Source
	logger *zap.SugaredLogger

	mu          sync.Mutex
	enabled     bool
	running     bool
	origin      time.Time
	lastMs      int64
	events      []model.KeyEvent
	unsubscribe func()
}

// NewCapture returns a capture bound to source.
func NewCapture(source Source, enabled bool, logger *zap.SugaredLogger) *Capture {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Capture{source: source, enabled: enabled, logger: logger}
}

// SetRecording enables or disables keystroke recording. Events already
// captured stay buffered until End.
func (c *Capture) SetRecording(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = enabled
	c.syncSubscription()
}

// Recording reports whether keystroke recording is enabled.
func (c *Capture) Recording() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Begin fixes the session origin and clears any previous timeline.
func (c *Capture) Begin(origin time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = true
	c.origin = origin
	c.lastMs = 0
	c.events = nil
	c.syncSubscription()
}

// End tears down the subscription and hands over the buffered timeline.
func (c *Capture) End() []model.KeyEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.syncSubscription()
	events := c.events
	c.events = nil
	c.origin = time.Time{}
	return events
}

// Len returns the number of buffered events.
func (c *Capture) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func (c *Capture) syncSubscription() {
	want := c.enabled && c.running
	switch {
	case want && c.unsubscribe == nil:
		c.unsubscribe = c.source.Subscribe(c.record)
		c.logger.Debugw("keystroke recording subscribed")
	case !want && c.unsubscribe != nil:
		c.unsubscribe()
		c.unsubscribe = nil
		c.logger.Debugw("keystroke recording unsubscribed")
	}
}

func (c *Capture) record(ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || c.unsubscribe == nil {
		return
	}
	ms := ev.At.Sub(c.origin).Milliseconds()
	if ms < 0 {
		ms = 0
	}
	if ms < c.lastMs {
		ms = c.lastMs
	}
	c.lastMs = ms
	c.events = append(c.events, model.KeyEvent{Direction: ev.Direction, Key: ev.Key, RelativeMs: ms})
}
