package chunking

import (
	"strings"

	"docrag/internal/document"
)

// DefaultPage is used when no page information exists.
const DefaultPage = 1

// Attributor picks the source page for a chunk.
type Attributor interface {
	Attribute(chunk string, pages []document.PageSpan) int
}

// WordOverlapAttributor selects the page sharing the most distinct lower-cased
// words with the chunk. Ties go to the earliest page in the sequence.
type WordOverlapAttributor struct{}

// NewWordOverlapAttributor creates a new WordOverlapAttributor.
func NewWordOverlapAttributor() *WordOverlapAttributor {
	return &WordOverlapAttributor{}
}

// Attribute returns the page number for chunk, or DefaultPage when pages is empty.
func (a *WordOverlapAttributor) Attribute(chunk string, pages []document.PageSpan) int {
	if len(pages) == 0 {
		return DefaultPage
	}

	chunkWords := wordSet(chunk)
	best := pages[0].PageNumber
	bestOverlap := -1
	for _, page := range pages {
		overlap := 0
		for w := range wordSet(page.Text) {
			if _, ok := chunkWords[w]; ok {
				overlap++
			}
		}
		if overlap > bestOverlap {
			best = page.PageNumber
			bestOverlap = overlap
		}
	}

	if best < 1 {
		return DefaultPage
	}
	return best
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(s))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
