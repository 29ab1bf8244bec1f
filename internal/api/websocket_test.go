package api

import (
	"encoding/json"
	"testing"

	"github.com/gmsas95/habitlens/internal/dashboard"
	"github.com/gmsas95/habitlens/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHub_Broadcast(t *testing.T) {
	m := metrics.New()
	hub := NewHub(m, zap.NewNop())

	a := hub.register()
	b := hub.register()
	assert.Equal(t, 2, hub.Len())
	assert.Equal(t, int64(2), m.Snapshot().ActiveConnections)

	hub.BroadcastInsights(dashboard.Empty())

	for _, cl := range []*client{a, b} {
		msg := <-cl.send
		var frame struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &frame))
		assert.Equal(t, "dashboard", frame.Type)
		assert.Contains(t, string(frame.Data), "topPerformingHabits")
	}

	hub.unregister(a)
	hub.unregister(a)
	assert.Equal(t, 1, hub.Len())
	_, open := <-a.send
	assert.False(t, open)
}

func TestHub_DropsSlowClients(t *testing.T) {
	hub := NewHub(metrics.New(), zap.NewNop())
	hub.register()

	for i := 0; i < sendBuffer+1; i++ {
		hub.Broadcast(Frame{Type: "ping"})
	}
	assert.Zero(t, hub.Len())
}

func TestHub_Close(t *testing.T) {
	m := metrics.New()
	hub := NewHub(m, zap.NewNop())
	hub.register()
	hub.register()

	hub.Close()
	assert.Zero(t, hub.Len())
	assert.Zero(t, m.Snapshot().ActiveConnections)

	late := hub.register()
	_, open := <-late.send
	assert.False(t, open)
	assert.Zero(t, hub.Len())
}
