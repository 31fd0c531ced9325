package vectorstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MemoryStore is an in-process VectorStore using brute-force cosine similarity.
// It is intended for tests and single-run CLI sessions.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*memoryCollection
}

type memoryCollection struct {
	vectorSize int
	order      []string
	points     map[string]Point
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string]*memoryCollection)}
}

// EnsureCollection creates the collection if missing and validates its vector size otherwise.
func (s *MemoryStore) EnsureCollection(ctx context.Context, collection string, vectorSize int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.collections[collection]; ok {
		if vectorSize > 0 && c.vectorSize > 0 && c.vectorSize != vectorSize {
			return fmt.Errorf("collection vector size mismatch: expected %d, got %d", vectorSize, c.vectorSize)
		}
		return nil
	}
	s.collections[collection] = &memoryCollection{vectorSize: vectorSize, points: make(map[string]Point)}
	return nil
}

// Upsert inserts or updates points in the collection, creating it on first use.
func (s *MemoryStore) Upsert(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.collections[collection]
	if !ok {
		c = &memoryCollection{vectorSize: len(points[0].Vec), points: make(map[string]Point)}
		s.collections[collection] = c
	}
	if c.vectorSize == 0 {
		c.vectorSize = len(points[0].Vec)
	}

	for _, p := range points {
		if len(p.Vec) != c.vectorSize {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", c.vectorSize, len(p.Vec))
		}
	}
	for _, p := range points {
		if _, exists := c.points[p.ID]; !exists {
			c.order = append(c.order, p.ID)
		}
		vec := make([]float32, len(p.Vec))
		copy(vec, p.Vec)
		c.points[p.ID] = Point{ID: p.ID, Vec: vec, Meta: copyMeta(p.Meta)}
	}
	return nil
}

// Search performs a similarity search with optional filters.
func (s *MemoryStore) Search(ctx context.Context, collection string, query []float32, k int, filters map[string]any) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return []SearchResult{}, nil
	}

	results := make([]SearchResult, 0, len(c.order))
	for _, id := range c.order {
		p := c.points[id]
		if !matchesFilters(p.Meta, filters) {
			continue
		}
		results = append(results, SearchResult{
			PointID: p.ID,
			Score:   cosine(query, p.Vec),
			Meta:    copyMeta(p.Meta),
		})
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of points matching filters.
func (s *MemoryStore) Count(ctx context.Context, collection string, filters map[string]any) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.collections[collection]
	if !ok {
		return 0, nil
	}
	n := 0
	for _, p := range c.points {
		if matchesFilters(p.Meta, filters) {
			n++
		}
	}
	return n, nil
}
