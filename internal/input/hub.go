package input

import (
	"sync"
	"time"

	"github.com/verte-zerg/typerec/internal/model"
)

// Event is one raw key edge as delivered by the terminal.
type Event struct {
	Direction model.Direction
	Key       string
	At        time.Time
}

// Handler receives published events.
type Handler func(Event)

// Source is anything key handlers can subscribe to.
type Source interface {
	Subscribe(Handler) (unsubscribe func())
}

// Hub fans key events out to subscribers in subscription order.
type Hub struct {
	mu       sync.Mutex
	next     int
	order    []int
	handlers map[int]Handler
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{handlers: map[int]Handler{}}
}

// Subscribe registers fn. The returned func removes it and is safe to call more than once.
func (h *Hub) Subscribe(fn Handler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next++
	id := h.next
	h.handlers[id] = fn
	h.order = append(h.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.handlers, id)
			for i, v := range h.order {
				if v == id {
					h.order = append(h.order[:i], h.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Publish delivers ev to every current subscriber.
func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	handlers := make([]Handler, 0, len(h.order))
	for _, id := range h.order {
		handlers = append(handlers, h.handlers[id])
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// Subscribers returns the number of installed handlers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handlers)
}
