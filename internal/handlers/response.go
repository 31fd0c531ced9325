package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"docrag/internal/document"
	"docrag/internal/service"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 20

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusForError maps domain and service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, document.ErrUnsupportedDocumentType):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, document.ErrUpstreamFetch),
		errors.Is(err, document.ErrEmbedding),
		errors.Is(err, document.ErrSynthesis):
		return http.StatusBadGateway
	case errors.Is(err, document.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	_ = writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// decodeJSON decodes a size-capped request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}
