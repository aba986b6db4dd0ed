package system

import (
	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

type WebSocketController struct {
	hub    *Hub
	logger *zap.Logger
}

func NewWebSocketController(hub *Hub, logger *zap.Logger) *WebSocketController {
	return &WebSocketController{hub: hub, logger: logger}
}

// HandleWebSocket streams change events to a connected admin screen until the
// client goes away.
func (h *WebSocketController) HandleWebSocket(c *websocket.Conn) {
	events := h.hub.subscribe(c)
	defer h.hub.unsubscribe(c)

	// Reader goroutine only exists to notice the client closing.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(ev); err != nil {
				h.logger.Debug("Websocket write failed", zap.Error(err))
				return
			}
		case <-done:
			return
		}
	}
}
