package http

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"decrypto/internal/app"
	"decrypto/internal/config"
	"decrypto/internal/transport/ws"
)

// Server represents the HTTP server
type Server struct {
	server     *http.Server
	hub        *app.GameHub
	dispatcher *app.Dispatcher
	config     *config.Config
	logger     *slog.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.Config, dispatcher *app.Dispatcher, logger *slog.Logger) *Server {
	s := &Server{
		hub:        dispatcher.Hub(),
		dispatcher: dispatcher,
		config:     cfg,
		logger:     logger,
	}

	s.server = &http.Server{
		Addr:         cfg.GetAddr(),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the routed handler with middleware applied
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.setupRoutes(mux)
	return s.middleware(mux)
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(mux *http.ServeMux) {
	// API routes
	mux.HandleFunc("POST /api/rooms", s.handleCreateRoom)
	mux.HandleFunc("GET /api/rooms/{roomCode}", s.handleGetRoom)
	mux.HandleFunc("GET /api/rooms/{roomCode}/exists", s.handleRoomExists)
	mux.HandleFunc("GET /api/rooms/{roomCode}/qr", s.handleRoomQR)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/stats", s.handleStats)

	// WebSocket
	wsHandler := ws.NewHandler(s.dispatcher, s.config.Client, s.logger)
	mux.Handle("GET /ws", wsHandler)
}

// middleware wraps the handler with logging and other middleware
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Add CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		// Wrap response writer to capture status code
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// Health probes are noisy outside development
		level := slog.LevelInfo
		if r.URL.Path == "/api/health" && !s.config.IsDevelopment() {
			level = slog.LevelDebug
		}
		s.logger.Log(r.Context(), level, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapped.statusCode,
			"duration", time.Since(start),
		)
	})
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.server.Addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.server.Shutdown(ctx)
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Hijack implements http.Hijacker for WebSocket support
func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := rw.ResponseWriter.(http.Hijacker); ok {
		return hijacker.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Flush implements http.Flusher
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
