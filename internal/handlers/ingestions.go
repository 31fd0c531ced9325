package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"docrag/internal/contextutil"
	"docrag/internal/service"
	"docrag/internal/storage"
)

// maxListLimit bounds the limit query parameter.
const maxListLimit = 500

// IngestionsHandler serves the ingestion ledger.
type IngestionsHandler struct {
	ingestService service.IngestService
}

// NewIngestionsHandler creates a new IngestionsHandler.
func NewIngestionsHandler(ingestService service.IngestService) *IngestionsHandler {
	return &IngestionsHandler{ingestService: ingestService}
}

// IngestionResponse is one ledger record.
type IngestionResponse struct {
	ID            string `json:"id"`
	SourceID      string `json:"source_id"`
	SourceType    string `json:"source_type"`
	DocumentType  string `json:"document_type"`
	Fingerprint   string `json:"fingerprint,omitempty"`
	Outcome       string `json:"outcome"`
	ChunksCreated int    `json:"chunks_created"`
	Error         string `json:"error,omitempty"`
	DurationMS    int64  `json:"duration_ms"`
	CreatedAt     string `json:"created_at"`
}

// IngestionListResponse wraps a page of ledger records.
type IngestionListResponse struct {
	Ingestions []IngestionResponse `json:"ingestions"`
}

func toIngestionResponse(rec storage.IngestionRecord) IngestionResponse {
	return IngestionResponse{
		ID:            rec.ID,
		SourceID:      rec.SourceID,
		SourceType:    rec.SourceType,
		DocumentType:  rec.DocType,
		Fingerprint:   rec.Fingerprint,
		Outcome:       rec.Outcome,
		ChunksCreated: rec.ChunksCreated,
		Error:         rec.Error,
		DurationMS:    rec.DurationMS,
		CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// List handles GET /ingestions?limit=N.
func (h *IngestionsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	limit := storage.DefaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, "limit must be an integer between 1 and 500")
			return
		}
		limit = n
	}

	records, err := h.ingestService.ListIngestions(ctx, limit)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list ingestions", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list ingestions")
		return
	}

	resp := IngestionListResponse{Ingestions: make([]IngestionResponse, 0, len(records))}
	for _, rec := range records {
		resp.Ingestions = append(resp.Ingestions, toIngestionResponse(rec))
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// Get handles GET /ingestions/{id}.
func (h *IngestionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "Missing ingestion id")
		return
	}

	rec, err := h.ingestService.GetIngestion(ctx, id)
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Ingestion not found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to get ingestion", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to get ingestion")
		return
	}

	if err := writeJSON(w, http.StatusOK, toIngestionResponse(*rec)); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// Stats handles GET /stats.
func (h *IngestionsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	stats, err := h.ingestService.Stats(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to compute stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to compute stats")
		return
	}

	if err := writeJSON(w, http.StatusOK, stats); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}
