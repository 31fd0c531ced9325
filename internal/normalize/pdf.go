package normalize

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"docrag/internal/document"
)

// PageExtractor decodes a paginated document into its non-empty pages.
type PageExtractor interface {
	ExtractPages(data []byte) ([]document.PageSpan, error)
}

// PDFExtractor extracts per-page text with ledongthuc/pdf.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDFExtractor.
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractPages decodes pages in order and keeps only those whose text is
// non-empty after trimming. Page numbers refer to the position in the file,
// so skipped pages leave gaps.
func (e *PDFExtractor) ExtractPages(data []byte) (pages []document.PageSpan, err error) {
	// The pdf package panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = fmt.Errorf("failed to decode pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	total := reader.NumPage()
	pages = make([]document.PageSpan, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		pages = append(pages, document.PageSpan{PageNumber: i, Text: text})
	}

	return pages, nil
}

// JoinPages flattens page texts into canonical text, one newline between pages.
func JoinPages(pages []document.PageSpan) string {
	texts := make([]string, len(pages))
	for i, p := range pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n")
}
