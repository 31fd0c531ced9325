package vectorstore

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"docrag/internal/contextutil"
	"docrag/internal/storage"
)

// SQLiteFileName is the database file created inside the store location.
const SQLiteFileName = "vectors.db"

// SQLiteStore persists points in a SQLite file and searches them by brute-force
// cosine similarity. Payload filters are evaluated in SQL with json_extract.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the vector database under storeLocation.
func NewSQLiteStore(storeLocation string) (*SQLiteStore, error) {
	if err := os.MkdirAll(storeLocation, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store location: %w", err)
	}

	db, err := storage.New(filepath.Join(storeLocation, SQLiteFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open vector database: %w", err)
	}

	s, err := NewSQLiteStoreFromDB(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLiteStoreFromDB wraps an existing database handle and creates the vector tables.
func NewSQLiteStoreFromDB(db *sql.DB) (*SQLiteStore, error) {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS vector_collections (
			name TEXT PRIMARY KEY,
			vector_size INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS vector_points (
			collection TEXT NOT NULL,
			id TEXT NOT NULL,
			vector BLOB NOT NULL,
			payload TEXT NOT NULL,
			seq INTEGER NOT NULL,
			PRIMARY KEY (collection, id),
			FOREIGN KEY (collection) REFERENCES vector_collections(name) ON DELETE CASCADE
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to migrate vector tables: %w", err)
		}
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// EnsureCollection creates the collection if missing and validates its vector size otherwise.
func (s *SQLiteStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	logger := contextutil.LoggerFromContext(ctx)

	var existing int
	err := s.db.QueryRowContext(ctx, `SELECT vector_size FROM vector_collections WHERE name = ?`, collection).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, `INSERT INTO vector_collections (name, vector_size) VALUES (?, ?)`, collection, vectorSize); err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
		logger.InfoContext(ctx, "collection created", "collection", collection, "vector_size", vectorSize)
		return nil
	case err != nil:
		return fmt.Errorf("failed to check collection existence: %w", err)
	}

	if existing != vectorSize {
		return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, existing)
	}
	return nil
}

// Upsert inserts or updates points in the collection. A missing collection is
// created with the dimension of the first point.
func (s *SQLiteStore) Upsert(ctx context.Context, collection string, points []Point) error {
	logger := contextutil.LoggerFromContext(ctx)

	if len(points) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO vector_collections (name, vector_size) VALUES (?, ?)`, collection, len(points[0].Vec)); err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	var vectorSize int
	if err := tx.QueryRowContext(ctx, `SELECT vector_size FROM vector_collections WHERE name = ?`, collection).Scan(&vectorSize); err != nil {
		return fmt.Errorf("failed to read collection: %w", err)
	}

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM vector_points WHERE collection = ?`, collection).Scan(&seq); err != nil {
		return fmt.Errorf("failed to read sequence: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vector_points (collection, id, vector, payload, seq) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (collection, id) DO UPDATE SET vector = excluded.vector, payload = excluded.payload`)
	if err != nil {
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, p := range points {
		if len(p.Vec) != vectorSize {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", vectorSize, len(p.Vec))
		}
		payload, err := json.Marshal(p.Meta)
		if err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		seq++
		if _, err := stmt.ExecContext(ctx, collection, p.ID, encodeVector(p.Vec), string(payload), seq); err != nil {
			logger.ErrorContext(ctx, "failed to upsert points", "collection", collection, "count", len(points), "error", err)
			return fmt.Errorf("failed to upsert points: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit upsert: %w", err)
	}

	logger.InfoContext(ctx, "upserted points", "collection", collection, "count", len(points))
	return nil
}

// Search performs a similarity search with optional filters.
func (s *SQLiteStore) Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	where, args, err := buildSQLFilter(filters)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, vector, payload FROM vector_points WHERE collection = ?`+where+` ORDER BY seq`,
		append([]any{collection}, args...)...)
	if err != nil {
		logger.ErrorContext(ctx, "failed to search points", "collection", collection, "k", k, "error", err)
		return nil, fmt.Errorf("failed to search points: %w", err)
	}
	defer func() { _ = rows.Close() }()

	results := []SearchResult{}
	for rows.Next() {
		var (
			id      string
			blob    []byte
			payload string
		)
		if err := rows.Scan(&id, &blob, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan point: %w", err)
		}
		meta := map[string]any{}
		if err := json.Unmarshal([]byte(payload), &meta); err != nil {
			return nil, fmt.Errorf("failed to decode payload: %w", err)
		}
		results = append(results, SearchResult{
			PointID: id,
			Score:   cosine(query, decodeVector(blob)),
			Meta:    meta,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate points: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}

	logger.InfoContext(ctx, "search completed", "collection", collection, "k", k, "results", len(results))
	return results, nil
}

// Count returns the number of points matching filters.
func (s *SQLiteStore) Count(ctx context.Context, collection string, filters map[string]any) (int, error) {
	where, args, err := buildSQLFilter(filters)
	if err != nil {
		return 0, err
	}

	var n int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vector_points WHERE collection = ?`+where,
		append([]any{collection}, args...)...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count points: %w", err)
	}
	return n, nil
}

// buildSQLFilter turns equality filters into a json_extract clause prefixed with " AND".
func buildSQLFilter(filters map[string]any) (string, []any, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	keys := make([]string, 0, len(filters))
	for k := range filters {
		if strings.ContainsAny(k, `"\`) {
			return "", nil, fmt.Errorf("invalid filter key %q", k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	args := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		b.WriteString(` AND json_extract(payload, ?) = ?`)
		v := filters[k]
		switch tv := v.(type) {
		case bool:
			// json_extract yields 1 or 0 for JSON booleans
			if tv {
				v = 1
			} else {
				v = 0
			}
		case string, int, int32, int64, float64:
		default:
			return "", nil, fmt.Errorf("unsupported filter value type %T for key %q", v, k)
		}
		args = append(args, `$."`+k+`"`, v)
	}
	return b.String(), args, nil
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[4*i:]))
	}
	return vec
}
