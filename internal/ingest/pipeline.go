package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"docrag/internal/chunking"
	"docrag/internal/config"
	"docrag/internal/contextutil"
	"docrag/internal/document"
	"docrag/internal/fingerprint"
	"docrag/internal/llm"
	"docrag/internal/normalize"
	"docrag/internal/vectorstore"
)

// textSourcePrefix and textSourceHashLen build the default source id for inline text.
const (
	textSourcePrefix  = "text_"
	textSourceHashLen = 10
)

// chunkNamespace seeds deterministic chunk IDs.
var chunkNamespace = uuid.MustParse("6f1c2a8e-4b7d-5e3f-9a10-2c4d6e8f0a1b")

// Request is one document to ingest.
type Request struct {
	// SourceID identifies where the content came from. Empty means derive one
	// from the fingerprint.
	SourceID string
	DocType  document.DocType
	Content  []byte
	// Metadata is merged into every chunk payload and wins on key collisions.
	Metadata map[string]any
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithAttributor replaces the default word-overlap page attributor.
func WithAttributor(a chunking.Attributor) Option {
	return func(p *Pipeline) { p.attributor = a }
}

// WithUnknownPolicy sets the behaviour when the dedup lookup fails.
func WithUnknownPolicy(policy UnknownPolicy) Option {
	return func(p *Pipeline) { p.onUnknown = policy }
}

// WithClock overrides the ingestion timestamp source.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// Pipeline runs normalize, fingerprint, dedup, chunk, attribute, embed and store.
type Pipeline struct {
	normalizer  *normalize.Normalizer
	chunker     *chunking.Chunker
	attributor  chunking.Attributor
	gate        *Gate
	embedder    llm.Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	onUnknown   UnknownPolicy
	now         func() time.Time
	logger      *slog.Logger
}

// NewPipeline creates a new ingestion pipeline from explicit configuration.
func NewPipeline(
	cfg config.Pipeline,
	normalizer *normalize.Normalizer,
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	opts ...Option,
) (*Pipeline, error) {
	chunker, err := chunking.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("failed to create chunker: %w", err)
	}

	p := &Pipeline{
		normalizer:  normalizer,
		chunker:     chunker,
		attributor:  chunking.NewWordOverlapAttributor(),
		gate:        NewGate(vectorStore, collection),
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		onUnknown:   UnknownProceed,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// getLogger extracts logger from context or returns default logger.
func (p *Pipeline) getLogger(ctx context.Context) *slog.Logger {
	if l, ok := contextutil.LookupLogger(ctx); ok {
		return l
	}
	return p.logger
}

// Ingest processes one document. Duplicates and empty documents are successful
// outcomes with zero chunks; they are told apart by Outcome.Kind.
func (p *Pipeline) Ingest(ctx context.Context, req Request) (document.Outcome, error) {
	logger := p.getLogger(ctx)

	normalized, err := p.normalizer.Normalize(req.Content, req.DocType)
	if err != nil {
		return document.Outcome{}, fmt.Errorf("failed to normalize %s content: %w", req.DocType, err)
	}

	fp := fingerprint.Compute(normalized.CanonicalText, req.DocType)
	sourceID := req.SourceID
	if sourceID == "" {
		sourceID = textSourcePrefix + fp[:textSourceHashLen]
	}

	outcome := document.Outcome{
		SourceID:      sourceID,
		Fingerprint:   fp,
		DocType:       req.DocType,
		CanonicalText: normalized.CanonicalText,
	}

	if strings.TrimSpace(normalized.CanonicalText) == "" {
		logger.InfoContext(ctx, "document has no text", "source", sourceID, "doc_type", req.DocType)
		outcome.Kind = document.OutcomeEmptyDocument
		return outcome, nil
	}

	switch p.gate.Check(ctx, fp) {
	case DedupDuplicate:
		logger.InfoContext(ctx, "skipping duplicate document", "source", sourceID, "fingerprint", fp)
		outcome.Kind = document.OutcomeDuplicate
		return outcome, nil
	case DedupUnknown:
		if p.onUnknown == UnknownReject {
			return document.Outcome{}, fmt.Errorf("%w: dedup lookup failed for %s", document.ErrStoreUnavailable, fp)
		}
		logger.WarnContext(ctx, "dedup status unknown, ingesting anyway", "source", sourceID, "fingerprint", fp)
	}

	doc := document.Document{
		SourceID:      sourceID,
		DocType:       req.DocType,
		CanonicalText: normalized.CanonicalText,
		Pages:         normalized.Pages,
	}
	chunks := p.buildChunks(doc, fp)
	if len(chunks) == 0 {
		outcome.Kind = document.OutcomeEmptyDocument
		return outcome, nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		logger.ErrorContext(ctx, "failed to generate embeddings", "source", sourceID, "error", err)
		return document.Outcome{}, fmt.Errorf("%w: failed to generate embeddings: %w", document.ErrEmbedding, err)
	}
	if len(embeddings) != len(chunks) {
		return document.Outcome{}, fmt.Errorf("%w: embedding count mismatch: expected %d, got %d", document.ErrEmbedding, len(chunks), len(embeddings))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, c := range chunks {
		points[i] = vectorstore.Point{
			ID:   ChunkID(fp, c.Index),
			Vec:  embeddings[i],
			Meta: BuildMetadata(c, req.Metadata),
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		logger.ErrorContext(ctx, "failed to upsert vectors", "source", sourceID, "error", err)
		return document.Outcome{}, fmt.Errorf("%w: failed to upsert vectors: %w", document.ErrStoreUnavailable, err)
	}

	logger.InfoContext(ctx, "ingested document", "source", sourceID, "doc_type", req.DocType, "chunks", len(chunks), "fingerprint", fp)

	outcome.Kind = document.OutcomeIngested
	outcome.ChunksCreated = len(chunks)
	return outcome, nil
}

// buildChunks splits the canonical text and attributes each chunk to a page.
// All chunks share one ingestion timestamp.
func (p *Pipeline) buildChunks(doc document.Document, fp string) []document.Chunk {
	texts := p.chunker.Split(doc.CanonicalText)
	ingestedAt := p.now()

	chunks := make([]document.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = document.Chunk{
			Text:        text,
			Index:       i,
			Page:        p.attributor.Attribute(text, doc.Pages),
			SourceID:    doc.SourceID,
			Fingerprint: fp,
			DocType:     doc.DocType,
			IngestedAt:  ingestedAt,
		}
	}
	return chunks
}

// ChunkID derives a stable point ID from the document fingerprint and chunk index,
// so re-ingesting the same content overwrites instead of duplicating.
func ChunkID(fp string, index int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(fp+":"+strconv.Itoa(index))).String()
}
