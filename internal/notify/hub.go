package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"auradash/internal/logger"

	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

// ErrClientGone reports that a connection is no longer registered, usually
// because a failed write already dropped it.
var ErrClientGone = errors.New("notify: client not registered")

// envelope wraps every message pushed over a websocket connection.
type envelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// client pairs a connection with the mutex that serializes writes to it.
// gorilla/websocket forbids concurrent writers on one connection, and both
// the broadcast path and the keepalive ping path write to the same conn.
type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Hub fans notifications out to connected websocket clients. It is the
// production Notifier: the mobile UI keeps one /ws connection open and
// renders whatever arrives. A hub with zero clients still succeeds —
// dispatch is fire-and-forget.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*client
	log     *logger.Logger
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
		log:     log,
	}
}

// Register adds a client connection to the broadcast set.
func (h *Hub) Register(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = &client{conn: conn}
}

// Unregister removes a client; safe to call for unknown connections.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, conn)
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) client(conn *websocket.Conn) *client {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.clients[conn]
}

func (h *Hub) snapshot() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		out = append(out, c)
	}
	return out
}

// Ping writes a keepalive ping to a registered connection, serialized with
// any broadcast in flight. The /ws handler's ticker goes through here so
// the connection only ever has one writer at a time.
func (h *Hub) Ping(conn *websocket.Conn) error {
	c := h.client(conn)
	if c == nil {
		return ErrClientGone
	}
	return c.write(websocket.PingMessage, nil)
}

// Send broadcasts the notification to every connected client. Write
// failures drop the offending connection and are logged; Send itself
// never fails.
func (h *Hub) Send(ctx context.Context, n Notification) error {
	clients := h.snapshot()

	msg := envelope{Type: "notification", Data: n}
	for _, c := range clients {
		if err := c.writeJSON(msg); err != nil {
			if h.log != nil {
				h.log.Infow("ws_notify_write_failed", "err", err)
			}
			h.Unregister(c.conn)
			_ = c.conn.Close()
		}
	}

	if h.log != nil {
		h.log.Infow("notification_dispatched",
			"title", n.Title, "priority", n.Priority, "clients", len(clients))
	}
	return nil
}
