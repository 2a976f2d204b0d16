package handlers

import (
	"log/slog"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/welldanyogia/webrana-posts-backend/internal/api/middleware"
	"github.com/welldanyogia/webrana-posts-backend/internal/websocket"
)

// FeedHandler upgrades authenticated requests to the post event feed
type FeedHandler struct {
	hub      *websocket.Hub
	upgrader gorillaws.Upgrader
	logger   *slog.Logger
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(hub *websocket.Hub, upgrader gorillaws.Upgrader, logger *slog.Logger) *FeedHandler {
	return &FeedHandler{
		hub:      hub,
		upgrader: upgrader,
		logger:   logger,
	}
}

// Subscribe handles GET /api/posts/feed
// It blocks until the client disconnects or the hub stops.
func (h *FeedHandler) Subscribe(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// The upgrader has already written an HTTP error response.
		if h.logger != nil {
			h.logger.Debug("websocket upgrade failed", slog.Any("error", err))
		}
		return nil
	}

	var userID uint
	if user := middleware.UserFromContext(c); user != nil {
		userID = user.ID
	}

	client := websocket.NewClient(h.hub, conn, userID, h.logger)
	if !h.hub.Register(client) {
		conn.Close()
		return nil
	}

	go client.WritePump()
	client.ReadPump()
	return nil
}
