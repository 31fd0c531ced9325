package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"docrag/internal/contextutil"
	"docrag/internal/document"
	"docrag/internal/service"
)

// Response statuses.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// IngestHandler handles HTTP requests for document ingestion.
type IngestHandler struct {
	ingestService service.IngestService
	logger        *slog.Logger
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(ingestService service.IngestService) *IngestHandler {
	return &IngestHandler{
		ingestService: ingestService,
		logger:        slog.Default(),
	}
}

// IngestRequest represents the HTTP request payload for ingestion.
type IngestRequest struct {
	SourceType   string         `json:"source_type"`
	Content      string         `json:"content"`
	DocumentType string         `json:"document_type"`
	SourceID     string         `json:"source_id,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// IngestResponse represents the HTTP response payload for ingestion.
// ChunksCreated is zero for duplicates, empty documents and failures;
// Outcome tells them apart.
type IngestResponse struct {
	Status         string `json:"status"`
	Message        string `json:"message"`
	ChunksCreated  int    `json:"chunks_created"`
	Outcome        string `json:"outcome,omitempty"`
	SourceID       string `json:"source_id,omitempty"`
	Fingerprint    string `json:"fingerprint,omitempty"`
	ContentExcerpt string `json:"content_excerpt,omitempty"`
	IngestionID    string `json:"ingestion_id,omitempty"`
}

// ServeHTTP handles HTTP requests for ingestion.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := h.logger
	if l, ok := contextutil.LookupLogger(ctx); ok {
		logger = l
	}

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req IngestRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeFailure(w, http.StatusBadRequest, "", fmt.Errorf("invalid request body: %w", err))
		return
	}

	// Convert HTTP request to service request
	res, err := h.ingestService.Ingest(ctx, service.IngestRequest{
		SourceType:   service.SourceType(req.SourceType),
		Content:      req.Content,
		DocumentType: req.DocumentType,
		SourceID:     req.SourceID,
		Metadata:     req.Metadata,
	})
	if err != nil {
		logger.ErrorContext(ctx, "service error", "error", err)
		h.writeFailure(w, statusForError(err), res.RecordID, err)
		return
	}

	resp := IngestResponse{
		Status:         StatusSuccess,
		Message:        outcomeMessage(res.Outcome.Kind),
		ChunksCreated:  res.Outcome.ChunksCreated,
		Outcome:        string(res.Outcome.Kind),
		SourceID:       res.Outcome.SourceID,
		Fingerprint:    res.Outcome.Fingerprint,
		ContentExcerpt: res.Excerpt,
		IngestionID:    res.RecordID,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeFailure writes an ingest response with zero chunks.
func (h *IngestHandler) writeFailure(w http.ResponseWriter, statusCode int, recordID string, err error) {
	_ = writeJSON(w, statusCode, IngestResponse{
		Status:        StatusError,
		Message:       fmt.Sprintf("Failed to ingest document: %s", err.Error()),
		ChunksCreated: 0,
		IngestionID:   recordID,
	})
}

func outcomeMessage(kind document.OutcomeKind) string {
	switch kind {
	case document.OutcomeDuplicate:
		return "Document already ingested"
	case document.OutcomeEmptyDocument:
		return "Document contains no text"
	}
	return "Document ingested successfully"
}
