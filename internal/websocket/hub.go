// Package websocket streams post mutation events to connected clients.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/welldanyogia/webrana-posts-backend/internal/metrics"
	"github.com/welldanyogia/webrana-posts-backend/internal/models"
)

// MessageType represents the type of WebSocket message
type MessageType string

const (
	MessageTypePostCreated MessageType = "post.created"
	MessageTypePostUpdated MessageType = "post.updated"
	MessageTypePostDeleted MessageType = "post.deleted"
	MessageTypePing        MessageType = "ping"
	MessageTypePong        MessageType = "pong"
	MessageTypeError       MessageType = "error"
)

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type   MessageType  `json:"type"`
	PostID uint         `json:"post_id,omitempty"`
	Post   *models.Post `json:"post,omitempty"`
	Error  string       `json:"error,omitempty"`
}

// Hub maintains the set of active clients and broadcasts post events.
// Only the Run goroutine mutates the client set.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	// done is closed when Run returns
	done chan struct{}

	mu     sync.RWMutex
	logger *slog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub's main loop; it disconnects every client once ctx is done
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.disconnect()
			}
			h.mu.Unlock()
			metrics.FeedClientsConnected.Set(0)
			if h.logger != nil {
				h.logger.Info("feed hub stopped")
			}
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.FeedClientsConnected.Inc()
			if h.logger != nil {
				h.logger.Debug("feed client registered", slog.Uint64("user_id", uint64(client.UserID)))
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.disconnect()
				metrics.FeedClientsConnected.Dec()
			}
			h.mu.Unlock()
			if h.logger != nil {
				h.logger.Debug("feed client unregistered", slog.Uint64("user_id", uint64(client.UserID)))
			}

		case msg := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients {
				// Full buffers skip the event
				client.deliver(msg)
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the hub. It returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Done is closed once the hub has stopped
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// PostCreated broadcasts a post.created event
func (h *Hub) PostCreated(post *models.Post) {
	h.Publish(WSMessage{Type: MessageTypePostCreated, PostID: post.ID, Post: post})
}

// PostUpdated broadcasts a post.updated event
func (h *Hub) PostUpdated(post *models.Post) {
	h.Publish(WSMessage{Type: MessageTypePostUpdated, PostID: post.ID, Post: post})
}

// PostDeleted broadcasts a post.deleted event
func (h *Hub) PostDeleted(id uint) {
	h.Publish(WSMessage{Type: MessageTypePostDeleted, PostID: id})
}

// Publish broadcasts msg to every client. It never blocks the caller:
// events are dropped when the broadcast queue is full or the hub stopped.
func (h *Hub) Publish(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("failed to marshal broadcast message", slog.Any("error", err))
		}
		return
	}

	select {
	case <-h.done:
	case h.broadcast <- data:
	default:
		if h.logger != nil {
			h.logger.Warn("feed broadcast queue full, dropping event",
				slog.String("type", string(msg.Type)))
		}
	}
}
