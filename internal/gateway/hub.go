// Package gateway bridges WebSocket connections to the feed engine. Each
// accepted connection becomes an engine subscriber; the engine decides
// what every subscriber receives (snapshot vs increment), the gateway only
// moves bytes.
package gateway

import (
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"feedsim/internal/market"
)

// Hub upgrades HTTP connections and manages subscriber lifetimes against
// the engine.
type Hub struct {
	engine   *market.Engine
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewHub creates a Hub for the given engine.
func NewHub(engine *market.Engine, log *zap.Logger) *Hub {
	return &Hub{
		engine: engine,
		log:    log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// HandleWS upgrades the connection, attaches it to the engine (which sends
// the initial full snapshot), and blocks until the peer disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(conn)
	h.log.Info("websocket client connected", zap.String("remote", r.RemoteAddr))

	h.engine.Attach(client)
	go client.writePump()
	client.readPump()

	// The engine stops sending once Detach returns, so closing the send
	// channel afterwards is safe and lets writePump exit.
	h.engine.Detach(client)
	close(client.send)
	h.log.Info("websocket client disconnected", zap.String("remote", r.RemoteAddr))
}
