package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingest_service.go -package=mocks docrag/internal/service IngestService,Ingester

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"docrag/internal/contextutil"
	"docrag/internal/corpus"
	"docrag/internal/document"
	"docrag/internal/fetch"
	"docrag/internal/ingest"
	"docrag/internal/storage"
)

// ExcerptLength is the number of runes of canonical text returned to callers.
const ExcerptLength = 200

// SourceType says how IngestRequest.Content is interpreted.
type SourceType string

const (
	// SourceURL means Content is a URL to fetch.
	SourceURL SourceType = "url"
	// SourceText means Content is the document itself.
	SourceText SourceType = "text"
	// sourceFile is only produced by directory and file ingestion.
	sourceFile SourceType = "file"
)

// Ingester runs a single document through the ingestion pipeline.
// *ingest.Pipeline implements it.
type Ingester interface {
	Ingest(ctx context.Context, req ingest.Request) (document.Outcome, error)
}

// IngestRequest represents an ingest request in the domain layer.
type IngestRequest struct {
	SourceType   SourceType
	Content      string
	DocumentType string
	// SourceID defaults to the URL for url sources and to a fingerprint-derived
	// id for text sources.
	SourceID string
	Metadata map[string]any
}

// IngestResult is the outcome of one ingest request.
type IngestResult struct {
	Outcome  document.Outcome
	Excerpt  string
	RecordID string
}

// FileFailure is one file that could not be ingested.
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// DirectoryReport summarizes a directory ingestion.
type DirectoryReport struct {
	Files         int           `json:"files"`
	Ingested      int           `json:"ingested"`
	Duplicates    int           `json:"duplicates"`
	Empty         int           `json:"empty"`
	ChunksCreated int           `json:"chunks_created"`
	Failures      []FileFailure `json:"failures,omitempty"`
}

// IngestService provides document ingestion and the ingestion ledger.
type IngestService interface {
	// Ingest validates, resolves and ingests one document.
	Ingest(ctx context.Context, req IngestRequest) (IngestResult, error)
	// IngestFile ingests a local file, inferring its type from the extension.
	IngestFile(ctx context.Context, path string) (IngestResult, error)
	// IngestDirectory ingests every supported file under root.
	IngestDirectory(ctx context.Context, root string) (DirectoryReport, error)
	// ListIngestions returns recent ledger records, newest first.
	ListIngestions(ctx context.Context, limit int) ([]storage.IngestionRecord, error)
	// GetIngestion returns one ledger record. Returns ErrNotFound if missing.
	GetIngestion(ctx context.Context, id string) (*storage.IngestionRecord, error)
	// Stats summarizes the ledger.
	Stats(ctx context.Context) (*storage.IngestionStats, error)
}

// ingestService implements IngestService.
type ingestService struct {
	ingester Ingester
	fetcher  fetch.Fetcher
	ledger   storage.IngestionStore
	slots    *semaphore.Weighted
	limit    int
	now      func() time.Time
	logger   *slog.Logger
}

// NewIngestService creates a new IngestService. At most maxConcurrent
// documents are processed at once across all callers.
func NewIngestService(ingester Ingester, fetcher fetch.Fetcher, ledger storage.IngestionStore, maxConcurrent int) IngestService {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &ingestService{
		ingester: ingester,
		fetcher:  fetcher,
		ledger:   ledger,
		slots:    semaphore.NewWeighted(int64(maxConcurrent)),
		limit:    maxConcurrent,
		now:      time.Now,
		logger:   slog.Default(),
	}
}

// getLogger extracts logger from context or returns default logger.
func (s *ingestService) getLogger(ctx context.Context) *slog.Logger {
	if l, ok := contextutil.LookupLogger(ctx); ok {
		return l
	}
	return s.logger
}

// Ingest processes an ingest request.
func (s *ingestService) Ingest(ctx context.Context, req IngestRequest) (IngestResult, error) {
	logger := s.getLogger(ctx)

	// Business validation. Empty inline text is a valid empty document;
	// only a URL source needs something to fetch.
	if req.SourceType != SourceURL && req.SourceType != SourceText {
		logger.WarnContext(ctx, "unsupported source type", "source_type", req.SourceType)
		return IngestResult{}, &ValidationError{Field: "source_type", Message: "must be url or text"}
	}
	if req.SourceType == SourceURL && strings.TrimSpace(req.Content) == "" {
		logger.WarnContext(ctx, "empty url in ingest request")
		return IngestResult{}, &ValidationError{Field: "content", Message: "url cannot be empty"}
	}
	docType, err := document.ParseDocType(req.DocumentType)
	if err != nil {
		logger.WarnContext(ctx, "unsupported document type", "document_type", req.DocumentType)
		return IngestResult{}, err
	}

	return s.run(ctx, req.SourceType, req.SourceID, docType, req.Metadata, func(ctx context.Context) ([]byte, string, error) {
		if req.SourceType == SourceText {
			return []byte(req.Content), req.SourceID, nil
		}
		res, err := s.fetcher.Fetch(ctx, req.Content)
		if err != nil {
			return nil, "", err
		}
		sourceID := req.SourceID
		if sourceID == "" {
			sourceID = req.Content
		}
		return res.Body, sourceID, nil
	})
}

// IngestFile ingests a single local file with its base name as source id.
func (s *ingestService) IngestFile(ctx context.Context, path string) (IngestResult, error) {
	docType, ok := corpus.DocTypeForPath(path)
	if !ok {
		return IngestResult{}, fmt.Errorf("%w: %s", document.ErrUnsupportedDocumentType, path)
	}
	return s.ingestLocal(ctx, path, filepath.Base(path), docType)
}

// IngestDirectory fans out over the files found by corpus.Scan. Per-file
// failures are collected in the report; only scan failures return an error.
func (s *ingestService) IngestDirectory(ctx context.Context, root string) (DirectoryReport, error) {
	logger := s.getLogger(ctx)

	files, err := corpus.Scan(ctx, root)
	if err != nil {
		return DirectoryReport{}, err
	}

	report := DirectoryReport{Files: len(files)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for _, f := range files {
		g.Go(func() error {
			res, err := s.ingestLocal(gctx, f.AbsPath, f.RelPath, f.DocType)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				report.Failures = append(report.Failures, FileFailure{Path: f.RelPath, Error: err.Error()})
				return nil
			}
			switch res.Outcome.Kind {
			case document.OutcomeIngested:
				report.Ingested++
				report.ChunksCreated += res.Outcome.ChunksCreated
			case document.OutcomeDuplicate:
				report.Duplicates++
			case document.OutcomeEmptyDocument:
				report.Empty++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, fmt.Errorf("directory ingestion interrupted: %w", err)
	}

	logger.InfoContext(ctx, "directory ingested",
		"root", root,
		"files", report.Files,
		"ingested", report.Ingested,
		"duplicates", report.Duplicates,
		"empty", report.Empty,
		"failed", len(report.Failures),
		"chunks", report.ChunksCreated,
	)
	return report, nil
}

func (s *ingestService) ingestLocal(ctx context.Context, path, sourceID string, docType document.DocType) (IngestResult, error) {
	return s.run(ctx, sourceFile, sourceID, docType, nil, func(context.Context) ([]byte, string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
		}
		return data, sourceID, nil
	})
}

type resolveFunc func(ctx context.Context) (content []byte, sourceID string, err error)

// run holds a worker slot while resolving and ingesting, then records the
// attempt in the ledger whatever the outcome.
func (s *ingestService) run(ctx context.Context, sourceType SourceType, sourceID string, docType document.DocType, meta map[string]any, resolve resolveFunc) (IngestResult, error) {
	logger := s.getLogger(ctx)

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return IngestResult{}, fmt.Errorf("failed to acquire ingest slot: %w", err)
	}
	defer s.slots.Release(1)

	start := s.now()
	rec := &storage.IngestionRecord{
		SourceID:   sourceID,
		SourceType: string(sourceType),
		DocType:    string(docType),
	}

	outcome, err := func() (document.Outcome, error) {
		content, resolvedID, err := resolve(ctx)
		if err != nil {
			return document.Outcome{}, err
		}
		return s.ingester.Ingest(ctx, ingest.Request{
			SourceID: resolvedID,
			DocType:  docType,
			Content:  content,
			Metadata: meta,
		})
	}()

	rec.DurationMS = s.now().Sub(start).Milliseconds()
	if err != nil {
		rec.Outcome = storage.OutcomeFailed
		rec.Error = err.Error()
	} else {
		rec.SourceID = outcome.SourceID
		rec.Fingerprint = outcome.Fingerprint
		rec.Outcome = string(outcome.Kind)
		rec.ChunksCreated = outcome.ChunksCreated
	}

	// Ledger failures are logged, never returned.
	if lerr := s.ledger.Insert(context.WithoutCancel(ctx), rec); lerr != nil {
		logger.WarnContext(ctx, "failed to record ingestion", "source", rec.SourceID, "error", lerr)
		rec.ID = ""
	}

	if err != nil {
		logger.ErrorContext(ctx, "ingestion failed", "source", rec.SourceID, "doc_type", docType, "error", err)
		return IngestResult{RecordID: rec.ID}, WrapError(err, "failed to ingest document")
	}

	logger.InfoContext(ctx, "ingest request processed", "source", outcome.SourceID, "outcome", outcome.Kind, "chunks", outcome.ChunksCreated)
	return IngestResult{
		Outcome:  outcome,
		Excerpt:  Excerpt(outcome.CanonicalText, ExcerptLength),
		RecordID: rec.ID,
	}, nil
}

// ListIngestions returns recent ledger records.
func (s *ingestService) ListIngestions(ctx context.Context, limit int) ([]storage.IngestionRecord, error) {
	records, err := s.ledger.List(ctx, limit)
	if err != nil {
		return nil, WrapError(err, "failed to list ingestions")
	}
	return records, nil
}

// GetIngestion returns one ledger record.
func (s *ingestService) GetIngestion(ctx context.Context, id string) (*storage.IngestionRecord, error) {
	rec, err := s.ledger.GetByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: ingestion %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, WrapError(err, "failed to get ingestion")
	}
	return rec, nil
}

// Stats summarizes the ledger.
func (s *ingestService) Stats(ctx context.Context) (*storage.IngestionStats, error) {
	stats, err := s.ledger.Stats(ctx)
	if err != nil {
		return nil, WrapError(err, "failed to compute ingestion stats")
	}
	return stats, nil
}

// Excerpt returns at most n runes of text.
func Excerpt(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n])
}
