package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"decrypto/internal/app"
	"decrypto/internal/config"
	httpTransport "decrypto/internal/transport/http"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Set up logger
	var logger *slog.Logger
	logOpts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Logging.Level),
	}

	if cfg.Logging.Format == "json" {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, logOpts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, logOpts))
	}

	slog.SetDefault(logger)

	settings := cfg.Game.Settings()
	logger.Info("starting decrypto server",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"wordsPerTeam", settings.WordsPerTeam,
		"interceptLimit", settings.InterceptLimit,
		"mistakeLimit", settings.MistakeLimit,
	)

	words := app.NewWordPool(app.SecretWords, nil)
	if words.Size() < 2*settings.WordsPerTeam {
		logger.Error("word bank too small for configured teams",
			"words", words.Size(),
			"wordsPerTeam", settings.WordsPerTeam,
		)
		os.Exit(1)
	}

	// Create game hub
	hub := app.NewGameHub(app.HubOptions{
		Settings:       settings,
		RoomCodeLength: cfg.Game.RoomCodeLength,
		EmptyRoomTTL:   cfg.Game.EmptyRoomTTL,
		Words:          words,
	}, logger)
	defer hub.Close()

	// Create HTTP server
	server := httpTransport.NewServer(cfg, app.NewDispatcher(hub, logger), logger)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server stopped")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
