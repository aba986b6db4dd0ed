package system

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event is pushed to every connected admin screen so open views can refresh
// after someone else mutates shared configuration.
type Event struct {
	Kind    string      `json:"kind"` // e.g. "role.saved", "mapping.deleted", "schema.refreshed"
	Payload interface{} `json:"payload,omitempty"`
}

// Hub fans change events out to websocket subscribers. Slow or dead
// subscribers are dropped rather than blocking publishers.
type Hub struct {
	mu     sync.Mutex
	subs   map[*websocket.Conn]chan Event
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[*websocket.Conn]chan Event),
		logger: logger,
	}
}

// Publish sends an event to all subscribers without blocking the caller.
func (h *Hub) Publish(kind string, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, ch := range h.subs {
		select {
		case ch <- Event{Kind: kind, Payload: payload}:
		default:
			// Closing wakes the subscriber's write loop so it exits instead
			// of blocking until the client disconnects.
			h.logger.Warn("Dropping slow websocket subscriber")
			close(ch)
			delete(h.subs, conn)
		}
	}
}

func (h *Hub) subscribe(conn *websocket.Conn) chan Event {
	ch := make(chan Event, 16)
	h.mu.Lock()
	h.subs[conn] = ch
	h.mu.Unlock()
	return ch
}

func (h *Hub) unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	if ch, ok := h.subs[conn]; ok {
		close(ch)
		delete(h.subs, conn)
	}
	h.mu.Unlock()
}
