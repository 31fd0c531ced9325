// Package chunking splits canonical text into overlapping windows and maps
// each window back to the page it most likely came from.
package chunking

import (
	"fmt"
	"strings"
	"unicode"
)

// Chunker splits text into windows of at most Size runes. Consecutive windows
// share up to Overlap runes, aligned forward to the next word start.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. Size must be positive and overlap must be in [0, size).
func NewChunker(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split returns the chunks of text in source order. Cuts prefer a paragraph
// break, then a line break, then a sentence end, then any whitespace, and fall
// back to a hard cut at the window edge. Whitespace-only text yields no chunks.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	n := len(runes)
	start := skipSpace(runes, 0)

	var chunks []string
	for start < n {
		end := start + c.size
		if end >= n {
			if s := strings.TrimSpace(string(runes[start:n])); s != "" {
				chunks = append(chunks, s)
			}
			break
		}

		cut := c.findCut(runes, start, end)
		if s := strings.TrimSpace(string(runes[start:cut])); s != "" {
			chunks = append(chunks, s)
		}

		start = skipSpace(runes, c.nextStart(runes, cut))
	}

	return chunks
}

// findCut returns the exclusive end of the chunk starting at start. The cut is
// never earlier than start+overlap+1 so that every step makes progress.
func (c *Chunker) findCut(runes []rune, start, end int) int {
	minCut := start + c.overlap + 1
	n := len(runes)

	// paragraph
	for p := end; p >= minCut; p-- {
		if runes[p] == '\n' && p+1 < n && runes[p+1] == '\n' {
			return p
		}
	}
	// line
	for p := end; p >= minCut; p-- {
		if runes[p] == '\n' {
			return p
		}
	}
	// sentence
	for p := end; p >= minCut; p-- {
		if unicode.IsSpace(runes[p]) && isSentenceEnd(runes[p-1]) {
			return p
		}
	}
	// word
	for p := end; p >= minCut; p-- {
		if unicode.IsSpace(runes[p]) {
			return p
		}
	}
	return end
}

// nextStart backs up from cut by overlap runes and moves forward to the first
// word start in that window. Without one, the window start is used as is.
func (c *Chunker) nextStart(runes []rune, cut int) int {
	candidate := cut - c.overlap
	for p := candidate; p < cut; p++ {
		if isWordStart(runes, p) {
			return p
		}
	}
	return candidate
}

func isWordStart(runes []rune, p int) bool {
	if unicode.IsSpace(runes[p]) {
		return false
	}
	return p == 0 || unicode.IsSpace(runes[p-1])
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func skipSpace(runes []rune, p int) int {
	for p < len(runes) && unicode.IsSpace(runes[p]) {
		p++
	}
	return p
}
