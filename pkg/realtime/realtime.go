// Package realtime fans out view controller snapshots to any number of
// listeners (websocket sessions). Delivery is best effort: a listener whose
// buffer is full misses that event instead of slowing the controller down.
// Nothing is persisted or replayed; a new listener starts from the snapshot
// it reads itself.
package realtime

import (
	"sync"
	"time"

	"github.com/rubiojr/ofertas/pkg/view"
)

// Event types.
const (
	TypeInit  = "init"
	TypeState = "state"
)

// Event is the envelope written to listeners.
type Event struct {
	Type  string     `json:"type"`
	At    time.Time  `json:"at"`
	State view.State `json:"state"`
}

// StateEvent wraps a snapshot as a TypeState event.
func StateEvent(s view.State) Event {
	return Event{Type: TypeState, At: time.Now().UTC(), State: s}
}

// InitEvent wraps a snapshot as the first event of a session.
func InitEvent(s view.State) Event {
	return Event{Type: TypeInit, At: time.Now().UTC(), State: s}
}

// Hub is an in-memory fan-out dispatcher, safe for concurrent use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub returns a hub with the given per-listener buffer; bufSize <= 0 means
// 16.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 16
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a listener. Callers must Unregister the returned id.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes a listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Broadcast delivers ev to every listener with buffer space left.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Publish broadcasts a state snapshot. Its signature matches
// view.ControllerOptions.Notify.
func (h *Hub) Publish(s view.State) {
	h.Broadcast(StateEvent(s))
}

// Size returns the number of registered listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
