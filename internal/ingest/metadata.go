package ingest

import (
	"time"

	"docrag/internal/document"
)

// Payload keys stored with every chunk.
const (
	MetaSource      = "source"
	MetaDocType     = "doc_type"
	MetaIngestedAt  = "ingested_at"
	MetaPage        = "page"
	MetaText        = "text"
	MetaChunkIndex  = "chunk_index"
	MetaFingerprint = "content_hash"
)

// BuildMetadata assembles the stored payload for chunk. Keys in extra are
// applied last and override the built-in fields.
func BuildMetadata(chunk document.Chunk, extra map[string]any) map[string]any {
	meta := make(map[string]any, 7+len(extra))
	meta[MetaSource] = chunk.SourceID
	meta[MetaDocType] = string(chunk.DocType)
	meta[MetaIngestedAt] = chunk.IngestedAt.UTC().Format(time.RFC3339)
	meta[MetaPage] = chunk.Page
	meta[MetaText] = chunk.Text
	meta[MetaChunkIndex] = chunk.Index
	meta[MetaFingerprint] = chunk.Fingerprint

	for k, v := range extra {
		meta[k] = v
	}
	return meta
}
