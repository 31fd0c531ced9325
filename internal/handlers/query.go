package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"docrag/internal/contextutil"
	"docrag/internal/document"
	"docrag/internal/service"
)

// QueryHandler handles HTTP requests for questions over ingested documents.
type QueryHandler struct {
	queryService service.QueryService
	logger       *slog.Logger
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(queryService service.QueryService) *QueryHandler {
	return &QueryHandler{
		queryService: queryService,
		logger:       slog.Default(),
	}
}

// QueryRequest represents the HTTP request payload for a query.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse represents the HTTP response payload for a query.
type QueryResponse struct {
	Answer  string            `json:"answer"`
	Sources []document.Source `json:"sources"`
}

// ServeHTTP handles HTTP requests for queries. Failures keep the response
// shape: the answer carries the error text and sources is empty.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
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

	var req QueryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		h.writeFailure(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := h.queryService.Query(ctx, service.QueryRequest{Question: req.Question})
	if err != nil {
		logger.ErrorContext(ctx, "service error", "error", err)
		h.writeFailure(w, statusForError(err), err)
		return
	}

	sources := result.Sources
	if sources == nil {
		sources = []document.Source{}
	}
	if err := writeJSON(w, http.StatusOK, QueryResponse{Answer: result.Answer, Sources: sources}); err != nil {
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (h *QueryHandler) writeFailure(w http.ResponseWriter, statusCode int, err error) {
	_ = writeJSON(w, statusCode, QueryResponse{
		Answer:  fmt.Sprintf("Error: %s", err.Error()),
		Sources: []document.Source{},
	})
}
