package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/welldanyogia/webrana-posts-backend/internal/logger"
)

var defaultOrigins = []string{"http://localhost:3000"}

// NewSecureUpgrader creates a WebSocket upgrader that only accepts
// same-origin requests and the listed origins
func NewSecureUpgrader(origins []string, sec *logger.SecurityLogger) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(origins))
	for _, origin := range origins {
		if origin != "" {
			allowed[origin] = struct{}{}
		}
	}
	if len(allowed) == 0 {
		for _, origin := range defaultOrigins {
			allowed[origin] = struct{}{}
		}
	}

	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")

			// Allow same-origin requests (empty Origin)
			if origin == "" {
				return true
			}

			if _, ok := allowed[origin]; ok {
				return true
			}
			if _, ok := allowed["*"]; ok {
				return true
			}

			if sec != nil {
				sec.InvalidOrigin(r.RemoteAddr, origin)
			}
			return false
		},
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
}
