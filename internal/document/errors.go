package document

import "errors"

var (
	// ErrUnsupportedDocumentType is returned for document types outside pdf/text/html/markdown.
	ErrUnsupportedDocumentType = errors.New("unsupported document type")
	// ErrUpstreamFetch is returned when a source URL cannot be retrieved.
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	// ErrStoreUnavailable is returned when the vector store cannot be reached.
	ErrStoreUnavailable = errors.New("vector store unavailable")
	// ErrEmbedding is returned when the embedding provider fails.
	ErrEmbedding = errors.New("embedding failed")
	// ErrSynthesis is returned when the answer synthesizer fails.
	ErrSynthesis = errors.New("answer synthesis failed")
)
