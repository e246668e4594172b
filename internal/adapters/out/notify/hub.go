package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// client wraps a connection; gorilla connections allow one writer at a time.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

// Hub tracks the websocket connections of online users. A user may hold
// several connections, one per device.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
		logger:  logger.With("component", "websocket_hub"),
	}
}

// Serve registers conn for userID and blocks reading until the peer goes
// away. Incoming frames are discarded.
func (h *Hub) Serve(userID kernel.UUID, conn *websocket.Conn) {
	c := &client{conn: conn}
	key := userID.String()

	h.mu.Lock()
	if h.clients[key] == nil {
		h.clients[key] = make(map[*client]struct{})
	}
	h.clients[key][c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("WebSocket client registered", "user_id", key)

	defer func() {
		h.mu.Lock()
		delete(h.clients[key], c)
		if len(h.clients[key]) == 0 {
			delete(h.clients, key)
		}
		h.mu.Unlock()
		_ = conn.Close()
		h.logger.Debug("WebSocket client unregistered", "user_id", key)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Online reports how many connections userID currently holds.
func (h *Hub) Online(userID kernel.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID.String()])
}

func (h *Hub) Name() string { return "websocket" }

// Deliver pushes each notification to its recipient's connections. Offline
// recipients are skipped.
func (h *Hub) Deliver(_ context.Context, event kernel.DomainEvent, notifications []ports.Notification) error {
	for _, n := range notifications {
		payload, err := json.Marshal(toMessage(event, n))
		if err != nil {
			return err
		}
		for _, c := range h.connections(n.RecipientID.String()) {
			if err = c.write(payload); err != nil {
				h.logger.Warn("WebSocket write failed", "user_id", n.RecipientID.String(), "error", err)
				_ = c.conn.Close()
			}
		}
	}
	return nil
}

func (h *Hub) connections(key string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]*client, 0, len(h.clients[key]))
	for c := range h.clients[key] {
		out = append(out, c)
	}
	return out
}
