package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"docrag/internal/contextutil"
	"docrag/internal/document"
	"docrag/internal/service"
	"docrag/internal/storage"
)

// IngestInput is the input schema for the ingest tool.
type IngestInput struct {
	SourceType   string         `json:"source_type" jsonschema:"url to fetch content from a URL, text to ingest content directly"`
	Content      string         `json:"content" jsonschema:"the URL or the document text"`
	DocumentType string         `json:"document_type" jsonschema:"one of pdf, text, html, markdown"`
	SourceID     string         `json:"source_id,omitempty" jsonschema:"optional identifier for the document source"`
	Metadata     map[string]any `json:"metadata,omitempty" jsonschema:"optional metadata stored with every chunk"`
}

// IngestOutput is the output schema for the ingest tool.
type IngestOutput struct {
	Outcome        string `json:"outcome"`
	ChunksCreated  int    `json:"chunks_created"`
	SourceID       string `json:"source_id"`
	Fingerprint    string `json:"fingerprint,omitempty"`
	ContentExcerpt string `json:"content_excerpt,omitempty"`
}

// QueryInput is the input schema for the query tool.
type QueryInput struct {
	Question string `json:"question" jsonschema:"the question to answer from ingested documents"`
}

// QueryOutput is the output schema for the query tool.
type QueryOutput struct {
	Answer  string            `json:"answer"`
	Sources []document.Source `json:"sources"`
}

// StatsInput is the (empty) input schema for the stats tool.
type StatsInput struct{}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest",
		Description: "Ingest a document from a URL or inline text into the knowledge base",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query",
		Description: "Answer a question using the ingested documents and cite the source pages",
	}, s.handleQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "stats",
		Description: "Summarize past ingestion attempts",
	}, s.handleStats)
}

// handleIngest handles the ingest tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	res, err := s.services.Ingest.Ingest(ctx, service.IngestRequest{
		SourceType:   service.SourceType(input.SourceType),
		Content:      input.Content,
		DocumentType: input.DocumentType,
		SourceID:     input.SourceID,
		Metadata:     input.Metadata,
	})
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "mcp ingest failed", "error", err)
		return nil, IngestOutput{}, err
	}

	return nil, IngestOutput{
		Outcome:        string(res.Outcome.Kind),
		ChunksCreated:  res.Outcome.ChunksCreated,
		SourceID:       res.Outcome.SourceID,
		Fingerprint:    res.Outcome.Fingerprint,
		ContentExcerpt: res.Excerpt,
	}, nil
}

// handleQuery handles the query tool invocation.
func (s *Server) handleQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	result, err := s.services.Query.Query(ctx, service.QueryRequest{Question: input.Question})
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "mcp query failed", "error", err)
		return nil, QueryOutput{}, err
	}

	sources := result.Sources
	if sources == nil {
		sources = []document.Source{}
	}
	return nil, QueryOutput{Answer: result.Answer, Sources: sources}, nil
}

// handleStats handles the stats tool invocation.
func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, storage.IngestionStats, error) {
	stats, err := s.services.Ingest.Stats(ctx)
	if err != nil {
		return nil, storage.IngestionStats{}, err
	}
	if stats.ByOutcome == nil {
		stats.ByOutcome = map[string]int{}
	}
	return nil, *stats, nil
}
