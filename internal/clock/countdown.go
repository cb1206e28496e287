// Package clock provides the practice countdown that drives session boundaries.
package clock

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultInterval is the tick period of a countdown.
const DefaultInterval = time.Second

// Handle identifies one run of a countdown. The zero Handle means none is held.
type Handle int

// TickMsg is delivered by the Bubble Tea runtime for a running countdown.
type TickMsg struct {
	Handle Handle
	At     time.Time
}

// Signal is what session observers see of the countdown.
type Signal struct {
	Active bool
	Handle Handle
}

// Countdown is a cancellable practice timer.
type Countdown struct {
	duration  time.Duration
	interval  time.Duration
	remaining time.Duration

	active bool
	handle Handle
	last   Handle
}

// NewCountdown returns an idle countdown.
func NewCountdown(duration, interval time.Duration) *Countdown {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Countdown{duration: duration, interval: interval, remaining: duration}
}

// SetDuration changes the length of the next run. A running countdown keeps its time.
func (c *Countdown) SetDuration(d time.Duration) {
	c.duration = d
	if !c.active {
		c.remaining = d
	}
}

// Duration returns the configured run length.
func (c *Countdown) Duration() time.Duration {
	return c.duration
}

// Start begins a new run. Starting an active countdown returns the current handle and no command.
func (c *Countdown) Start() (Handle, tea.Cmd) {
	if c.active {
		return c.handle, nil
	}
	c.last++
	c.handle = c.last
	c.active = true
	c.remaining = c.duration
	return c.handle, c.tick()
}

// Update advances the countdown. Ticks for stale or released handles are dropped.
func (c *Countdown) Update(msg TickMsg) tea.Cmd {
	if !c.active || msg.Handle == 0 || msg.Handle != c.handle {
		return nil
	}
	c.remaining -= c.interval
	if c.remaining <= 0 {
		c.remaining = 0
		c.active = false
		return nil
	}
	return c.tick()
}

// Stop ends the run early. The handle stays held until Cancel releases it.
func (c *Countdown) Stop() {
	c.active = false
}

// Cancel releases h. Unknown handles are ignored.
func (c *Countdown) Cancel(h Handle) {
	if h == 0 || h != c.handle {
		return
	}
	c.handle = 0
	c.active = false
	c.remaining = c.duration
}

// Signal reports the current state and held handle.
func (c *Countdown) Signal() Signal {
	return Signal{Active: c.active, Handle: c.handle}
}

// Active reports whether the countdown is running.
func (c *Countdown) Active() bool {
	return c.active
}

// Remaining returns the time left in the current run.
func (c *Countdown) Remaining() time.Duration {
	return c.remaining
}

func (c *Countdown) tick() tea.Cmd {
	h := c.handle
	return tea.Tick(c.interval, func(t time.Time) tea.Msg {
		return TickMsg{Handle: h, At: t}
	})
}
