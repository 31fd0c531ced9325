// Package app wires configuration, storage, vector store, LLM clients and
// services into a ready-to-use application shared by the server and CLI.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"docrag/internal/config"
	"docrag/internal/fetch"
	"docrag/internal/ingest"
	"docrag/internal/llm"
	"docrag/internal/normalize"
	"docrag/internal/rag"
	"docrag/internal/service"
	"docrag/internal/storage"
	"docrag/internal/vectorstore"
)

// App holds the long-lived components built from a Config.
type App struct {
	Config        *config.Config
	DB            *sql.DB
	VectorStore   vectorstore.VectorStore
	Embedder      llm.Embedder
	IngestService service.IngestService
	QueryService  service.QueryService

	closers []io.Closer
}

// New builds the application. The returned App must be closed by the caller.
func New(ctx context.Context, cfg *config.Config) (_ *App, err error) {
	a := &App{Config: cfg}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, db)

	if err := storage.Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.InfoContext(ctx, "Database initialized", "path", cfg.DBPath)

	pipelineCfg := cfg.Pipeline()

	store, err := openVectorStore(cfg, pipelineCfg.StoreLocation)
	if err != nil {
		return nil, err
	}
	a.VectorStore = store
	if c, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	// Ensure collection exists with correct vector size
	if err := store.EnsureCollection(ctx, cfg.Collection, cfg.VectorSize); err != nil {
		return nil, fmt.Errorf("%w: failed to ensure collection: %w", ErrVectorStoreInit, err)
	}
	slog.InfoContext(ctx, "Vector store ready", "backend", cfg.VectorBackend, "collection", cfg.Collection, "vector_size", cfg.VectorSize)

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.VectorSize)
	a.Embedder = embedder
	synthesizer := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, cfg.LLMTemperature)

	policy, err := ingest.ParseUnknownPolicy(cfg.DedupOnUnknown)
	if err != nil {
		return nil, err
	}
	pipeline, err := ingest.NewPipeline(
		pipelineCfg,
		normalize.New(),
		embedder,
		store,
		cfg.Collection,
		ingest.WithUnknownPolicy(policy),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ingestion pipeline: %w", err)
	}

	fetcher := fetch.NewHTTPFetcher(fetch.Options{
		Timeout:           cfg.FetchTimeout,
		RequestsPerSecond: cfg.FetchRatePerSec,
		MaxBytes:          cfg.MaxFetchBytes,
	})

	engine := rag.NewEngine(embedder, store, cfg.Collection, synthesizer, pipelineCfg.TopK, cfg.ContextChunkLimit)

	a.IngestService = service.NewIngestService(pipeline, fetcher, storage.NewIngestionRepo(db), cfg.MaxConcurrentIngests)
	a.QueryService = service.NewQueryService(engine, cfg.MaxConcurrentQueries)
	slog.DebugContext(ctx, "LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModelName, "embedding_model", cfg.EmbeddingModelName)

	return a, nil
}

// ErrVectorStoreInit is returned when the configured vector backend cannot be opened.
var ErrVectorStoreInit = errors.New("vector store initialization failed")

// openVectorStore opens the backend named by cfg.VectorBackend. The sqlite
// backend keeps its file under location.
func openVectorStore(cfg *config.Config, location string) (vectorstore.VectorStore, error) {
	switch cfg.VectorBackend {
	case config.BackendSQLite:
		s, err := vectorstore.NewSQLiteStore(location)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrVectorStoreInit, err)
		}
		return s, nil
	case config.BackendQdrant:
		s, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrVectorStoreInit, err)
		}
		return s, nil
	case config.BackendMemory:
		return vectorstore.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrVectorStoreInit, cfg.VectorBackend)
}

// ValidateEmbedder embeds a short test string and checks the vector size (fail-fast).
// A zero configured size accepts any non-empty vector.
func (a *App) ValidateEmbedder(ctx context.Context) error {
	vecs, err := a.Embedder.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		return fmt.Errorf("failed to validate embedding client: %w", err)
	}
	if len(vecs) == 0 || len(vecs[0]) == 0 {
		return errors.New("embedding client returned no vectors")
	}
	if a.Config.VectorSize > 0 && len(vecs[0]) != a.Config.VectorSize {
		return fmt.Errorf("embedding vector size mismatch: expected %d, got %d", a.Config.VectorSize, len(vecs[0]))
	}
	return nil
}

// Close releases everything New opened, in reverse order.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
