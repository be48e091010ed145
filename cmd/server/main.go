// Package main is the entry point for the blog server. It reads
// configuration, prepares the data directory, and hands everything to the
// server package; no application logic lives here.
package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jacklearntech/firebase-studio-sample-blog/internal/config"
	"github.com/jacklearntech/firebase-studio-sample-blog/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// The SQLite file lives under a data directory that may not exist on
	// first run.
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		logger.Error("failed to create database directory",
			slog.String("dir", filepath.Dir(cfg.DBPath)),
			slog.Any("error", err),
		)
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create server", slog.Any("error", err))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}
