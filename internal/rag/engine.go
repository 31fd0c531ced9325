package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_engine.go -package=mocks docrag/internal/rag Engine

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"docrag/internal/contextutil"
	"docrag/internal/document"
	"docrag/internal/ingest"
	"docrag/internal/llm"
	"docrag/internal/vectorstore"
)

// DefaultContextChunkLimit is the maximum runes of a single chunk sent to the synthesizer.
const DefaultContextChunkLimit = 500

// Engine answers questions from the ingested corpus.
type Engine interface {
	// Query retrieves the top hits for question and synthesizes a grounded answer.
	Query(ctx context.Context, question string) (document.QueryResult, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	embedder     llm.Embedder
	vectorStore  vectorstore.VectorStore
	collection   string
	synthesizer  llm.Synthesizer
	topK         int
	contextLimit int
	logger       *slog.Logger
}

// NewEngine creates a new RAG engine. Non-positive topK or contextLimit fall back to 5 and 500.
func NewEngine(
	embedder llm.Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	synthesizer llm.Synthesizer,
	topK int,
	contextLimit int,
) Engine {
	if topK <= 0 {
		topK = 5
	}
	if contextLimit <= 0 {
		contextLimit = DefaultContextChunkLimit
	}
	return &ragEngine{
		embedder:     embedder,
		vectorStore:  vectorStore,
		collection:   collection,
		synthesizer:  synthesizer,
		topK:         topK,
		contextLimit: contextLimit,
		logger:       slog.Default(),
	}
}

// getLogger extracts logger from context or returns default logger.
func (e *ragEngine) getLogger(ctx context.Context) *slog.Logger {
	if l, ok := contextutil.LookupLogger(ctx); ok {
		return l
	}
	return e.logger
}

// Query answers a question using retrieval-augmented generation.
func (e *ragEngine) Query(ctx context.Context, question string) (document.QueryResult, error) {
	logger := e.getLogger(ctx)

	logger.InfoContext(ctx, "RAG query started", "question_length", len(question), "k", e.topK)

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		logger.ErrorContext(ctx, "failed to embed question", "error", err)
		return document.QueryResult{}, fmt.Errorf("%w: failed to embed question: %w", document.ErrEmbedding, err)
	}
	if len(embeddings) == 0 {
		return document.QueryResult{}, fmt.Errorf("%w: no embedding returned for question", document.ErrEmbedding)
	}

	results, err := e.vectorStore.Search(ctx, e.collection, embeddings[0], e.topK, nil)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search vector store", "error", err)
		return document.QueryResult{}, fmt.Errorf("%w: failed to search vector store: %w", document.ErrStoreUnavailable, err)
	}

	hits := HitsFromResults(results)
	logger.InfoContext(ctx, "vector search completed", "results_count", len(hits), "k_requested", e.topK)

	if len(hits) == 0 {
		logger.InfoContext(ctx, "no search results found")
		return document.QueryResult{
			Answer:  NoResultsAnswer,
			Sources: []document.Source{},
		}, nil
	}

	contextString := AssembleContext(hits, e.contextLimit)
	prompt := BuildPrompt(contextString, question)
	logger.DebugContext(ctx, "context formatted for LLM", "context_length", len(contextString), "chunks_included", len(hits))

	answer, err := e.synthesizer.Complete(ctx, prompt)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get LLM response", "error", err)
		return document.QueryResult{}, fmt.Errorf("%w: %w", document.ErrSynthesis, err)
	}

	sources := make([]document.Source, 0, len(hits))
	for _, hit := range hits {
		sources = append(sources, document.Source{Page: hit.Page, Text: hit.Text})
	}

	logger.InfoContext(ctx, "RAG query completed", "chunks_used", len(hits), "answer_length", len(answer))

	return document.QueryResult{
		Answer:  strings.TrimSpace(answer),
		Sources: sources,
	}, nil
}

// HitsFromResults extracts page and text from search payloads, ordered by
// descending score. Ties keep store order. A missing page defaults to 1.
func HitsFromResults(results []vectorstore.SearchResult) []Hit {
	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		page, ok := intFromMeta(r.Meta[ingest.MetaPage])
		if !ok || page < 1 {
			page = 1
		}
		text, _ := r.Meta[ingest.MetaText].(string)
		hits = append(hits, Hit{Page: page, Text: text, Score: r.Score})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits
}

// AssembleContext formats one "Page N: text" line per hit, truncating each text
// to limit runes, and joins the lines with a blank line.
func AssembleContext(hits []Hit, limit int) string {
	lines := make([]string, 0, len(hits))
	for _, hit := range hits {
		lines = append(lines, fmt.Sprintf("Page %d: %s", hit.Page, truncate(hit.Text, limit)))
	}
	return strings.Join(lines, "\n\n")
}

// BuildPrompt fills the fixed instruction template.
func BuildPrompt(contextString, question string) string {
	return fmt.Sprintf(promptTemplate, contextString, question)
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + truncationMarker
}

// intFromMeta accepts the integer shapes a payload may round-trip through.
func intFromMeta(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	}
	return 0, false
}
