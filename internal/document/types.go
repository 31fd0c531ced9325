package document

import (
	"fmt"
	"strings"
	"time"
)

// DocType identifies the format of an ingested document.
type DocType string

const (
	DocTypePDF      DocType = "pdf"
	DocTypeText     DocType = "text"
	DocTypeHTML     DocType = "html"
	DocTypeMarkdown DocType = "markdown"
)

// ParseDocType converts a caller-supplied string into a DocType.
// Returns ErrUnsupportedDocumentType for anything outside the known set.
func ParseDocType(s string) (DocType, error) {
	switch DocType(strings.ToLower(strings.TrimSpace(s))) {
	case DocTypePDF:
		return DocTypePDF, nil
	case DocTypeText:
		return DocTypeText, nil
	case DocTypeHTML:
		return DocTypeHTML, nil
	case DocTypeMarkdown:
		return DocTypeMarkdown, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedDocumentType, s)
}

// IsTextLike reports whether the type belongs to the text-like fingerprint category.
func (t DocType) IsTextLike() bool {
	return t == DocTypeText || t == DocTypeHTML || t == DocTypeMarkdown
}

// PageSpan is the extracted text of one non-empty page.
type PageSpan struct {
	PageNumber int    // 1-based page number in the source file
	Text       string // Raw page text as extracted
}

// Document is a single ingestion request after normalization.
type Document struct {
	SourceID      string
	DocType       DocType
	CanonicalText string
	Pages         []PageSpan // Only set for paginated formats
}

// Chunk is one retrievable unit derived from a Document.
type Chunk struct {
	Text        string
	Index       int // Contiguous, starts at 0 within a document
	Page        int // Always >= 1
	SourceID    string
	Fingerprint string
	DocType     DocType
	IngestedAt  time.Time
}

// OutcomeKind distinguishes the ways an ingestion can finish successfully.
type OutcomeKind string

const (
	// OutcomeIngested means at least one chunk was embedded and stored.
	OutcomeIngested OutcomeKind = "ingested"
	// OutcomeDuplicate means the fingerprint was already present in the store.
	OutcomeDuplicate OutcomeKind = "duplicate"
	// OutcomeEmptyDocument means normalization produced no text to chunk.
	OutcomeEmptyDocument OutcomeKind = "empty_document"
)

// Outcome is the result of one ingestion call.
type Outcome struct {
	Kind          OutcomeKind
	ChunksCreated int
	SourceID      string
	Fingerprint   string
	DocType       DocType
	CanonicalText string
}

// Source is a citation returned with an answer.
type Source struct {
	Page int    `json:"page"`
	Text string `json:"text"`
}

// QueryResult is the answer to a question plus the chunks it was grounded on.
type QueryResult struct {
	Answer  string
	Sources []Source
}
