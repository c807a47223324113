package ws

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"decrypto/internal/app"
	"decrypto/internal/config"
)

// Handler handles WebSocket connections
type Handler struct {
	dispatcher *app.Dispatcher
	clientCfg  config.ClientConfig
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(dispatcher *app.Dispatcher, clientCfg config.ClientConfig, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		clientCfg:  clientCfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// Allow all origins for development
				// In production, you should validate the origin
				return true
			},
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the request. The connection joins a room later, with
// create_room / join_room messages.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, h.dispatcher, h.newLimiter(), h.logger)

	h.logger.Info("websocket connected", "remoteAddr", r.RemoteAddr)

	// Start the client
	client.Run()
}

// newLimiter returns a per-connection limiter, or nil when limiting is off
func (h *Handler) newLimiter() *rate.Limiter {
	if h.clientCfg.MessageRate <= 0 {
		return nil
	}
	burst := h.clientCfg.MessageBurst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(h.clientCfg.MessageRate), burst)
}
