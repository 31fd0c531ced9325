package vectorstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "vector_store"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	storeContract(t, newTestSQLiteStore(t))
}

func TestSQLiteStore_CreatesLocation(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "store")
	store, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	defer func() { _ = store.Close() }()

	if _, err := os.Stat(filepath.Join(dir, SQLiteFileName)); err != nil {
		t.Errorf("expected database file to exist: %v", err)
	}
}

func TestSQLiteStore_Persists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "store")
	ctx := context.Background()

	store, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	if err := store.Upsert(ctx, "docs", seedPoints()); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	_ = store.Close()

	reopened, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("NewSQLiteStore() reopen error = %v", err)
	}
	defer func() { _ = reopened.Close() }()

	n, err := reopened.Count(ctx, "docs", map[string]any{"content_hash": "h2"})
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Count() after reopen = %d, want 1", n)
	}

	results, err := reopened.Search(ctx, "docs", []float32{0, 1, 0}, 1, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 || results[0].PointID != "b" {
		t.Fatalf("Search() = %+v, want point b", results)
	}
	// JSON payloads decode numbers as float64
	if results[0].Meta["page"] != float64(2) {
		t.Errorf("page = %v (%T), want 2", results[0].Meta["page"], results[0].Meta["page"])
	}
}

func TestBuildSQLFilter(t *testing.T) {
	where, args, err := buildSQLFilter(map[string]any{"page": 2, "content_hash": "abc", "ok": true})
	if err != nil {
		t.Fatalf("buildSQLFilter() error = %v", err)
	}
	want := " AND json_extract(payload, ?) = ? AND json_extract(payload, ?) = ? AND json_extract(payload, ?) = ?"
	if where != want {
		t.Errorf("where = %q, want %q", where, want)
	}
	if len(args) != 6 || args[0] != `$."content_hash"` || args[2] != `$."ok"` || args[3] != 1 {
		t.Errorf("unexpected args: %v", args)
	}

	if _, _, err := buildSQLFilter(map[string]any{`bad"key`: "x"}); err == nil {
		t.Error("buildSQLFilter() should reject keys containing quotes")
	}
	if _, _, err := buildSQLFilter(map[string]any{"k": []int{1}}); err == nil {
		t.Error("buildSQLFilter() should reject slice values")
	}
}

func TestVectorEncoding(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3e-7}
	out := decodeVector(encodeVector(in))
	if len(out) != len(in) {
		t.Fatalf("decoded length = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if in[i] != out[i] {
			t.Errorf("value %d = %v, want %v", i, out[i], in[i])
		}
	}
}
