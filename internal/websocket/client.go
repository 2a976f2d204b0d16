package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10 // must stay below pongWait
	maxMessageSize = 512
	sendBufferSize = 256
)

// Client is one feed subscriber. UserID is the authenticated user that
// opened the connection and is only used for logging.
//
// send is never closed; the hub signals disconnection by closing closed,
// so a late enqueue from ReadPump cannot panic.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	UserID uint
	logger *slog.Logger

	closed    chan struct{}
	closeOnce sync.Once
}

// NewClient creates a client for conn on behalf of userID
func NewClient(hub *Hub, conn *websocket.Conn, userID uint, logger *slog.Logger) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		UserID: userID,
		logger: logger,
		closed: make(chan struct{}),
	}
}

// disconnect marks the client as dropped by the hub. Safe to call twice.
func (c *Client) disconnect() {
	c.closeOnce.Do(func() { close(c.closed) })
}

// Closed is closed once the hub has dropped the client
func (c *Client) Closed() <-chan struct{} {
	return c.closed
}

// ReadPump reads client frames until the connection closes, then
// unregisters the client. It must run on the request goroutine.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && c.logger != nil {
				c.logger.Warn("feed connection closed unexpectedly",
					slog.Uint64("user_id", uint64(c.UserID)),
					slog.Any("error", err))
			}
			return
		}
		c.handleMessage(data)
	}
}

// WritePump forwards queued events to the connection and keeps it alive
// with pings until the hub drops the client.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.closed:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"))
			return

		case data := <-c.send:
			if !c.write(data) {
				return
			}
			// Flush whatever queued up while we were writing.
			for n := len(c.send); n > 0; n-- {
				if !c.write(<-c.send) {
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) write(data []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data) == nil
}

// handleMessage answers pings. Subscribers cannot publish to the feed.
func (c *Client) handleMessage(data []byte) {
	var msg WSMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.enqueue(WSMessage{Type: MessageTypeError, Error: "invalid message format"})
		return
	}

	if msg.Type == MessageTypePing {
		c.enqueue(WSMessage{Type: MessageTypePong})
		return
	}
	c.enqueue(WSMessage{Type: MessageTypeError, Error: "unknown message type"})
}

// enqueue drops msg when the client is too slow to keep up or has
// already been dropped by the hub
func (c *Client) enqueue(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	c.deliver(data)
}

func (c *Client) deliver(data []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}
