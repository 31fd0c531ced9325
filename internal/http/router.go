package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docrag/internal/handlers"
	"docrag/internal/service"
	"docrag/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	IngestService  service.IngestService
	QueryService   service.QueryService
	VectorStore    vectorstore.VectorStore
	CollectionName string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	// Add CORS middleware
	r.Use(CORS)

	ingestHandler := handlers.NewIngestHandler(deps.IngestService)
	queryHandler := handlers.NewQueryHandler(deps.QueryService)
	ingestionsHandler := handlers.NewIngestionsHandler(deps.IngestService)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.CollectionName)

	r.Get("/health", handlers.Liveness)
	r.Method(http.MethodPost, "/ingest", ingestHandler)
	r.Method(http.MethodPost, "/query", queryHandler)

	// Register API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)
		r.Method(http.MethodPost, "/ingest", ingestHandler)
		r.Method(http.MethodPost, "/query", queryHandler)
		r.Get("/ingestions", ingestionsHandler.List)
		r.Get("/ingestions/{id}", ingestionsHandler.Get)
		r.Get("/stats", ingestionsHandler.Stats)
	})

	return r
}
