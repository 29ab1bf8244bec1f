package api

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gmsas95/habitlens/internal/dashboard"
	"github.com/gmsas95/habitlens/internal/metrics"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

const sendBuffer = 8

// Hub fans dashboard frames out to connected websocket clients
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	metrics *metrics.Metrics
	logger  *zap.Logger
}

type client struct {
	send chan []byte
	once sync.Once
}

// NewHub creates an empty hub
func NewHub(m *metrics.Metrics, logger *zap.Logger) *Hub {
	if m == nil {
		m = metrics.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{clients: make(map[*client]struct{}), metrics: m, logger: logger}
}

func (h *Hub) register() *client {
	cl := &client{send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(cl.send)
		return cl
	}
	h.clients[cl] = struct{}{}
	h.metrics.IncrementActiveConnections()
	return cl
}

func (h *Hub) unregister(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; !ok {
		return
	}
	delete(h.clients, cl)
	h.metrics.DecrementActiveConnections()
	cl.once.Do(func() { close(cl.send) })
}

// Len returns the number of connected clients
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcast sends a frame to every client. Clients whose buffer is full are
// dropped.
func (h *Hub) Broadcast(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("Failed to encode frame", zap.String("type", frame.Type), zap.Error(err))
		return
	}

	h.mu.Lock()
	var slow []*client
	for cl := range h.clients {
		select {
		case cl.send <- data:
		default:
			slow = append(slow, cl)
		}
	}
	h.mu.Unlock()

	for _, cl := range slow {
		h.logger.Warn("Dropping slow websocket client")
		h.unregister(cl)
	}
}

// BroadcastInsights pushes a dashboard snapshot
func (h *Hub) BroadcastInsights(in *dashboard.Insights) {
	h.Broadcast(Frame{Type: "dashboard", Data: in})
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for cl := range h.clients {
		clients = append(clients, cl)
	}
	h.closed = true
	h.mu.Unlock()

	for _, cl := range clients {
		h.unregister(cl)
	}
}

func (s *Server) handleWebSocket(c *websocket.Conn) {
	cl := s.hub.register()
	defer s.hub.unregister(cl)

	go func() {
		defer s.hub.unregister(cl)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if in, err := s.service.DashboardInsights(context.Background()); err == nil {
		if data, err := json.Marshal(Frame{Type: "dashboard", Data: in}); err == nil {
			if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}

	for msg := range cl.send {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			s.logger.Warn("WebSocket write error", zap.Error(err))
			return
		}
	}
}
