// Package notify persists notifications and pushes them to open websocket
// channels. The persisted record is the source of truth; the push is a
// convenience layer whose failures are swallowed.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/craftforge/craftforge/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	sendBufferSize = 16
)

// Client is one open notification channel. A user may hold several at once
// (multiple browser tabs).
type Client struct {
	userID uuid.UUID
	send   chan []byte
}

// Outbox exposes the outbound message stream for this channel.
func (c *Client) Outbox() <-chan []byte {
	return c.send
}

// Hub is the shared per-user channel registry. All mutation happens under
// the mutex; a channel closing mid-send cannot block its siblings because
// sends are non-blocking.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID][]*Client
}

func NewHub() *Hub {
	return &Hub{clients: make(map[uuid.UUID][]*Client)}
}

// Register opens a new channel for the user.
func (h *Hub) Register(userID uuid.UUID) *Client {
	client := &Client{
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[userID] = append(h.clients[userID], client)
	h.mu.Unlock()

	metrics.WebsocketConnections.Inc()
	return client
}

// Unregister removes a channel from the registry and closes it. Safe to
// call more than once for the same client.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.userID]
	for i, c := range clients {
		if c == client {
			h.clients[client.userID] = append(clients[:i], clients[i+1:]...)
			if len(h.clients[client.userID]) == 0 {
				delete(h.clients, client.userID)
			}
			close(client.send)
			metrics.WebsocketConnections.Dec()
			return
		}
	}
}

// SendToUser fans a message out to every open channel of the user and
// returns how many channels accepted it. A saturated channel drops the
// message rather than blocking.
func (h *Hub) SendToUser(userID uuid.UUID, message []byte) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, client := range h.clients[userID] {
		select {
		case client.send <- message:
			delivered++
		default:
			metrics.SideEffectFailures.WithLabelValues("notification_push").Inc()
		}
	}
	return delivered
}

// ConnectionCount reports open channels for a user.
func (h *Hub) ConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// ServeConn registers the websocket as a channel for the user and pumps
// messages until either side disconnects.
func (h *Hub) ServeConn(conn *websocket.Conn, userID uuid.UUID) {
	client := h.Register(userID)

	go func() {
		for message := range client.send {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.Unregister(client)
				break
			}
		}
		conn.Close()
	}()

	// Inbound traffic is discarded; the channel is push-only.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.Unregister(client)
}
