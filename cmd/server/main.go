// Command server runs the skate tracker REST API.
//
// main stays minimal: load configuration, build the logger, hand both to
// package server. Everything else lives under internal/.
//
// Configuration comes from ./app.env (optional) and the environment; see
// internal/config for the keys. JWT_SECRET is required:
//
//	JWT_SECRET=$(openssl rand -hex 32) go run ./cmd/server
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/sakif/skate-tracker/internal/config"
	"github.com/sakif/skate-tracker/internal/server"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		slog.Error("loading config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	srv, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newLogger honours LOG_LEVEL and LOG_FORMAT ("text" or "json").
func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
