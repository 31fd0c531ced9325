// Package normalize converts raw document content into canonical plain text.
//
// Text passes through untouched. HTML is reduced to its visible text. Markdown
// is rendered to HTML first and then reduced exactly like HTML, so headings and
// lists flatten the same way in both formats. PDF is split into pages, empty
// pages are dropped, and the remaining page texts are joined with newlines.
package normalize

import (
	"fmt"

	"docrag/internal/document"
)

// Result is the output of normalizing one document.
type Result struct {
	CanonicalText string
	// Pages is only populated for paginated formats.
	Pages []document.PageSpan
}

// Normalizer dispatches raw content to the converter for its document type.
type Normalizer struct {
	markdown *MarkdownRenderer
	pages    PageExtractor
}

// New creates a Normalizer using goldmark for markdown and ledongthuc/pdf for pdf.
func New() *Normalizer {
	return NewWithExtractor(NewPDFExtractor())
}

// NewWithExtractor creates a Normalizer with a custom page extractor.
func NewWithExtractor(pages PageExtractor) *Normalizer {
	return &Normalizer{
		markdown: NewMarkdownRenderer(),
		pages:    pages,
	}
}

// Normalize converts raw content of the given type into canonical text.
func (n *Normalizer) Normalize(raw []byte, docType document.DocType) (Result, error) {
	switch docType {
	case document.DocTypeText:
		return Result{CanonicalText: string(raw)}, nil

	case document.DocTypeHTML:
		text, err := HTMLToText(string(raw))
		if err != nil {
			return Result{}, err
		}
		return Result{CanonicalText: text}, nil

	case document.DocTypeMarkdown:
		rendered, err := n.markdown.Render(raw)
		if err != nil {
			return Result{}, err
		}
		text, err := HTMLToText(rendered)
		if err != nil {
			return Result{}, err
		}
		return Result{CanonicalText: text}, nil

	case document.DocTypePDF:
		pages, err := n.pages.ExtractPages(raw)
		if err != nil {
			return Result{}, err
		}
		return Result{CanonicalText: JoinPages(pages), Pages: pages}, nil
	}

	return Result{}, fmt.Errorf("%w: %q", document.ErrUnsupportedDocumentType, docType)
}
