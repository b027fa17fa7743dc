package toast

import (
	"sync"
)

// Hub broadcasts toasts to subscribers. Slow subscribers lose toasts rather
// than block the reporter.
type Hub struct {
	mu   sync.Mutex
	subs map[chan Toast]struct{}
	size int
}

// NewHub creates a hub whose subscriber channels buffer size toasts.
func NewHub(size int) *Hub {
	return &Hub{subs: make(map[chan Toast]struct{}), size: size}
}

func (h *Hub) Report(t Toast) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- t:
		default:
		}
	}
}

// Subscribe returns a channel receiving future toasts and a function that
// closes it.
func (h *Hub) Subscribe() (<-chan Toast, func()) {
	ch := make(chan Toast, h.size)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}
