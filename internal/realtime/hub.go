package realtime

import (
	"sync"

	"github.com/google/uuid"
)

type Subscriber func(Event)

// Hub is the subscriber list of one session.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]Subscriber
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]Subscriber)}
}

// Add registers fn and returns the id to pass to Remove.
func (h *Hub) Add(fn Subscriber) string {
	id := uuid.NewString()

	h.mu.Lock()
	h.subs[id] = fn
	h.mu.Unlock()

	return id
}

func (h *Hub) Remove(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

// Publish calls every subscriber with ev. Subscribers run on the caller's
// goroutine and must not block.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	subs := make([]Subscriber, 0, len(h.subs))
	for _, fn := range h.subs {
		subs = append(subs, fn)
	}
	h.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (h *Hub) Clear() {
	h.mu.Lock()
	h.subs = make(map[string]Subscriber)
	h.mu.Unlock()
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
