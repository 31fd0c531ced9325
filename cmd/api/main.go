package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"docrag/internal/app"
	"docrag/internal/config"
	"docrag/internal/http"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// This API ingests PDF, HTML, markdown and plain text documents and answers
// questions about them with page-level citations.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: docrag API
//   description: |
//     Retrieval-augmented question answering over ingested documents.
//     Documents are normalized, deduplicated by content fingerprint, chunked and embedded.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	logger := cfg.NewLogger(os.Stdout)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer func() {
		_ = application.Close()
	}()

	// Validate embedding client vector size (fail-fast)
	if err := application.ValidateEmbedder(ctx); err != nil {
		log.Fatalf("Embedding client check failed: %v", err)
	}
	slog.Info("Embedding client validated", "vector_size", cfg.VectorSize)

	// Create router with dependencies
	router := http.NewRouter(&http.Deps{
		IngestService:  application.IngestService,
		QueryService:   application.QueryService,
		VectorStore:    application.VectorStore,
		CollectionName: cfg.Collection,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when a signal arrives
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("API server shutdown failed", "error", err)
		}
	}()

	// Start API server
	slog.Info("Starting API server", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed to start: %v", err)
	}
	slog.Info("API server stopped")
}
