package vectorstore

import (
	"context"
	"testing"
)

func seedPoints() []Point {
	return []Point{
		{ID: "a", Vec: []float32{1, 0, 0}, Meta: map[string]any{"content_hash": "h1", "page": 1, "text": "alpha"}},
		{ID: "b", Vec: []float32{0, 1, 0}, Meta: map[string]any{"content_hash": "h1", "page": 2, "text": "beta"}},
		{ID: "c", Vec: []float32{0.9, 0.1, 0}, Meta: map[string]any{"content_hash": "h2", "page": 1, "text": "gamma"}},
	}
}

// storeContract runs the behaviour every VectorStore implementation must share.
func storeContract(t *testing.T, store VectorStore) {
	t.Helper()
	ctx := context.Background()

	if err := store.EnsureCollection(ctx, "docs", 3); err != nil {
		t.Fatalf("EnsureCollection() error = %v", err)
	}
	if err := store.EnsureCollection(ctx, "docs", 4); err == nil {
		t.Error("EnsureCollection() with a different size should return error")
	}

	if err := store.Upsert(ctx, "docs", seedPoints()); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	t.Run("search orders by score", func(t *testing.T) {
		results, err := store.Search(ctx, "docs", []float32{1, 0, 0}, 2, nil)
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 2 {
			t.Fatalf("Search() returned %d results, want 2", len(results))
		}
		if results[0].PointID != "a" || results[1].PointID != "c" {
			t.Errorf("Search() order = [%s %s], want [a c]", results[0].PointID, results[1].PointID)
		}
		if results[0].Score < results[1].Score {
			t.Error("Search() results not in descending score order")
		}
		if results[0].Meta["text"] != "alpha" {
			t.Errorf("Search() meta text = %v, want alpha", results[0].Meta["text"])
		}
	})

	t.Run("search with filter", func(t *testing.T) {
		results, err := store.Search(ctx, "docs", []float32{1, 0, 0}, 5, map[string]any{"content_hash": "h1"})
		if err != nil {
			t.Fatalf("Search() error = %v", err)
		}
		if len(results) != 2 {
			t.Errorf("Search() with filter returned %d results, want 2", len(results))
		}
	})

	t.Run("search rejects invalid k", func(t *testing.T) {
		if _, err := store.Search(ctx, "docs", []float32{1, 0, 0}, 0, nil); err == nil {
			t.Error("Search() with k=0 should return error")
		}
	})

	t.Run("count", func(t *testing.T) {
		tests := []struct {
			name    string
			filters map[string]any
			want    int
		}{
			{name: "all", filters: nil, want: 3},
			{name: "by hash", filters: map[string]any{"content_hash": "h1"}, want: 2},
			{name: "by hash and page", filters: map[string]any{"content_hash": "h1", "page": 2}, want: 1},
			{name: "missing hash", filters: map[string]any{"content_hash": "nope"}, want: 0},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := store.Count(ctx, "docs", tt.filters)
				if err != nil {
					t.Fatalf("Count() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("Count() = %d, want %d", got, tt.want)
				}
			})
		}
	})

	t.Run("count unknown collection", func(t *testing.T) {
		got, err := store.Count(ctx, "missing", map[string]any{"content_hash": "h1"})
		if err != nil {
			t.Fatalf("Count() error = %v", err)
		}
		if got != 0 {
			t.Errorf("Count() = %d, want 0", got)
		}
	})

	t.Run("upsert rejects wrong dimension", func(t *testing.T) {
		err := store.Upsert(ctx, "docs", []Point{{ID: "x", Vec: []float32{1, 2}}})
		if err == nil {
			t.Error("Upsert() with wrong dimension should return error")
		}
	})

	t.Run("upsert replaces existing id", func(t *testing.T) {
		err := store.Upsert(ctx, "docs", []Point{{ID: "c", Vec: []float32{0, 0, 1}, Meta: map[string]any{"content_hash": "h3", "text": "gamma2"}}})
		if err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
		n, _ := store.Count(ctx, "docs", nil)
		if n != 3 {
			t.Errorf("Count() after replace = %d, want 3", n)
		}
		n, _ = store.Count(ctx, "docs", map[string]any{"content_hash": "h3"})
		if n != 1 {
			t.Errorf("Count(h3) after replace = %d, want 1", n)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_SearchEmptyCollection(t *testing.T) {
	results, err := NewMemoryStore().Search(context.Background(), "none", []float32{1}, 5, nil)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Search() on empty store returned %d results", len(results))
	}
}

func TestMemoryStore_UpsertCopiesMeta(t *testing.T) {
	store := NewMemoryStore()
	meta := map[string]any{"text": "original"}
	if err := store.Upsert(context.Background(), "docs", []Point{{ID: "a", Vec: []float32{1}, Meta: meta}}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	meta["text"] = "mutated"

	results, _ := store.Search(context.Background(), "docs", []float32{1}, 1, nil)
	if results[0].Meta["text"] != "original" {
		t.Errorf("stored meta changed after caller mutation: %v", results[0].Meta["text"])
	}
}

func TestValuesEqual(t *testing.T) {
	tests := []struct {
		a, b any
		want bool
	}{
		{a: 2, b: float64(2), want: true},
		{a: int64(2), b: 2, want: true},
		{a: "x", b: "x", want: true},
		{a: "2", b: 2, want: false},
		{a: true, b: true, want: true},
		{a: true, b: 1, want: false},
	}
	for _, tt := range tests {
		if got := valuesEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("valuesEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
