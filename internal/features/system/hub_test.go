package system

import (
	"testing"

	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishFansOut(t *testing.T) {
	hub := NewHub(zap.NewNop())
	conn := &websocket.Conn{}
	events := hub.subscribe(conn)
	defer hub.unsubscribe(conn)

	hub.Publish("role.saved", "Technician")

	ev := <-events
	assert.Equal(t, "role.saved", ev.Kind)
	assert.Equal(t, "Technician", ev.Payload)
}

func TestPublishDropsAndClosesSlowSubscriber(t *testing.T) {
	hub := NewHub(zap.NewNop())
	fast := &websocket.Conn{}
	slow := &websocket.Conn{}
	fastCh := hub.subscribe(fast)
	slowCh := hub.subscribe(slow)

	// Fill the slow subscriber's buffer without draining it, then publish one
	// more event to push it over.
	for i := 0; i <= cap(slowCh); i++ {
		hub.Publish("schema.refreshed", i)
		<-fastCh
	}

	// The slow subscriber's channel must be closed so its write loop exits
	drained := 0
	closed := false
	for {
		if _, ok := <-slowCh; !ok {
			closed = true
			break
		}
		drained++
		if drained > cap(slowCh) {
			break
		}
	}
	require.True(t, closed, "slow subscriber channel must be closed after the drop")

	// The fast subscriber is unaffected
	hub.Publish("mapping.saved", "m-1")
	ev := <-fastCh
	assert.Equal(t, "mapping.saved", ev.Kind)

	// Unsubscribing the already-dropped connection must not close twice
	hub.unsubscribe(slow)
	hub.unsubscribe(fast)
}
