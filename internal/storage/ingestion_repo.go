package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingestion_store.go -package=mocks docrag/internal/storage IngestionStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// timeLayout is fixed width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DefaultListLimit caps List when the caller passes a non-positive limit.
const DefaultListLimit = 50

// IngestionStore defines the interface for ingestion ledger operations.
type IngestionStore interface {
	// Insert records one ingestion attempt. ID and CreatedAt are filled in when empty.
	Insert(ctx context.Context, rec *IngestionRecord) error
	// GetByID gets a record by its ID. Returns ErrNotFound if not found.
	GetByID(ctx context.Context, id string) (*IngestionRecord, error)
	// List returns the most recent records first.
	List(ctx context.Context, limit int) ([]IngestionRecord, error)
	// Stats summarizes all records.
	Stats(ctx context.Context) (*IngestionStats, error)
}

// IngestionRepo provides methods for ingestion ledger operations.
// It implements the IngestionStore interface.
type IngestionRepo struct {
	db *sql.DB
}

// NewIngestionRepo creates a new IngestionRepo.
func NewIngestionRepo(db *sql.DB) *IngestionRepo {
	return &IngestionRepo{db: db}
}

// Insert records one ingestion attempt.
func (r *IngestionRepo) Insert(ctx context.Context, rec *IngestionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	rec.CreatedAt = rec.CreatedAt.UTC()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ingestions
		 (id, source_id, source_type, doc_type, fingerprint, outcome, chunks_created, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.SourceID, rec.SourceType, rec.DocType, rec.Fingerprint, rec.Outcome,
		rec.ChunksCreated, rec.Error, rec.DurationMS, rec.CreatedAt.Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ingestion: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, source_id, source_type, doc_type, fingerprint, outcome, chunks_created, error, duration_ms, created_at FROM ingestions`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIngestion(s rowScanner) (*IngestionRecord, error) {
	var rec IngestionRecord
	var createdAt string
	if err := s.Scan(&rec.ID, &rec.SourceID, &rec.SourceType, &rec.DocType, &rec.Fingerprint,
		&rec.Outcome, &rec.ChunksCreated, &rec.Error, &rec.DurationMS, &createdAt); err != nil {
		return nil, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		// Rows written by hand through the sqlite3 shell use this layout
		t, err = time.Parse("2006-01-02 15:04:05", createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
	}
	rec.CreatedAt = t
	return &rec, nil
}

// GetByID gets a record by its ID. Returns ErrNotFound if not found.
func (r *IngestionRepo) GetByID(ctx context.Context, id string) (*IngestionRecord, error) {
	rec, err := scanIngestion(r.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion: %w", err)
	}
	return rec, nil
}

// List returns up to limit records, newest first.
func (r *IngestionRepo) List(ctx context.Context, limit int) ([]IngestionRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := r.db.QueryContext(ctx, selectColumns+" ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestions: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	records := []IngestionRecord{}
	for rows.Next() {
		rec, err := scanIngestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingestion: %w", err)
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return records, nil
}

// Stats summarizes the ledger.
func (r *IngestionRepo) Stats(ctx context.Context) (*IngestionStats, error) {
	stats := &IngestionStats{ByOutcome: make(map[string]int)}

	rows, err := r.db.QueryContext(ctx, "SELECT outcome, COUNT(*) FROM ingestions GROUP BY outcome")
	if err != nil {
		return nil, fmt.Errorf("failed to query outcome counts: %w", err)
	}
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan outcome count: %w", err)
		}
		stats.ByOutcome[outcome] = n
		stats.Total += n
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	_ = rows.Close()

	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT fingerprint) FROM ingestions WHERE outcome = ?", OutcomeIngested,
	).Scan(&stats.DistinctDocuments)
	if err != nil {
		return nil, fmt.Errorf("failed to count distinct documents: %w", err)
	}

	counts, err := r.chunkCounts(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		stats.ChunksStored += c
	}
	stats.ChunksPerDocument = computeDistribution(counts)

	return stats, nil
}

func (r *IngestionRepo) chunkCounts(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT chunks_created FROM ingestions WHERE outcome = ?", OutcomeIngested)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunk counts: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var counts []int
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to scan chunk count: %w", err)
		}
		counts = append(counts, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return counts, nil
}

// computeDistribution computes min, max, mean, and p95 from counts.
func computeDistribution(counts []int) DistributionStats {
	if len(counts) == 0 {
		return DistributionStats{}
	}

	// Sort for percentile calculation
	sorted := make([]int, len(counts))
	copy(sorted, counts)
	sort.Ints(sorted)

	sum := 0
	for _, c := range counts {
		sum += c
	}
	mean := float64(sum) / float64(len(counts))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return DistributionStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
