package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_query_service.go -package=mocks docrag/internal/service QueryService

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/semaphore"

	"docrag/internal/contextutil"
	"docrag/internal/document"
	"docrag/internal/rag"
)

// QueryRequest represents a query request in the domain layer.
type QueryRequest struct {
	Question string
}

// QueryService answers questions over the ingested documents.
type QueryService interface {
	// Query validates the question and returns an answer with its sources.
	Query(ctx context.Context, req QueryRequest) (document.QueryResult, error)
}

// queryService implements QueryService.
type queryService struct {
	engine rag.Engine
	slots  *semaphore.Weighted
	logger *slog.Logger
}

// NewQueryService creates a new QueryService. At most maxConcurrent queries
// run at once.
func NewQueryService(engine rag.Engine, maxConcurrent int) QueryService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &queryService{
		engine: engine,
		slots:  semaphore.NewWeighted(int64(maxConcurrent)),
		logger: slog.Default(),
	}
}

// getLogger extracts logger from context or returns default logger.
func (s *queryService) getLogger(ctx context.Context) *slog.Logger {
	if l, ok := contextutil.LookupLogger(ctx); ok {
		return l
	}
	return s.logger
}

// Query processes a query request.
func (s *queryService) Query(ctx context.Context, req QueryRequest) (document.QueryResult, error) {
	logger := s.getLogger(ctx)

	// Business validation
	question := strings.TrimSpace(req.Question)
	if question == "" {
		logger.WarnContext(ctx, "empty question in query request")
		return document.QueryResult{}, &ValidationError{
			Field:   "question",
			Message: "cannot be empty",
		}
	}

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return document.QueryResult{}, fmt.Errorf("failed to acquire query slot: %w", err)
	}
	defer s.slots.Release(1)

	result, err := s.engine.Query(ctx, question)
	if err != nil {
		logger.ErrorContext(ctx, "failed to answer question", "error", err)
		return document.QueryResult{}, WrapError(err, "failed to answer question")
	}

	logger.InfoContext(ctx, "query processed successfully", "question_length", len(question), "sources", len(result.Sources))
	return result, nil
}
