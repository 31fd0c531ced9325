// Package ingest turns raw documents into stored, retrievable chunks.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"docrag/internal/contextutil"
	"docrag/internal/vectorstore"
)

// DedupResult is the outcome of a fingerprint lookup.
type DedupResult int

const (
	// DedupNew means no stored chunk carries the fingerprint.
	DedupNew DedupResult = iota
	// DedupDuplicate means at least one stored chunk carries the fingerprint.
	DedupDuplicate
	// DedupUnknown means the store could not be consulted.
	DedupUnknown
)

func (r DedupResult) String() string {
	switch r {
	case DedupNew:
		return "new"
	case DedupDuplicate:
		return "duplicate"
	case DedupUnknown:
		return "unknown"
	}
	return fmt.Sprintf("DedupResult(%d)", int(r))
}

// UnknownPolicy decides what ingestion does when the gate returns DedupUnknown.
type UnknownPolicy string

const (
	// UnknownProceed ingests as if the document were new.
	UnknownProceed UnknownPolicy = "proceed"
	// UnknownReject fails the ingestion with ErrStoreUnavailable.
	UnknownReject UnknownPolicy = "reject"
)

// ParseUnknownPolicy validates a policy name.
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch p := UnknownPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case UnknownProceed, UnknownReject:
		return p, nil
	}
	return "", fmt.Errorf("unknown dedup policy %q (want proceed or reject)", s)
}

// Gate checks the vector store for chunks already tagged with a fingerprint.
type Gate struct {
	store      vectorstore.VectorStore
	collection string
}

// NewGate creates a gate over the given collection.
func NewGate(store vectorstore.VectorStore, collection string) *Gate {
	return &Gate{store: store, collection: collection}
}

// Check looks up fingerprint. Store failures yield DedupUnknown, never an error.
func (g *Gate) Check(ctx context.Context, fingerprint string) DedupResult {
	logger := contextutil.LoggerFromContext(ctx)

	n, err := g.store.Count(ctx, g.collection, map[string]any{MetaFingerprint: fingerprint})
	if err != nil {
		logger.WarnContext(ctx, "dedup lookup failed", "fingerprint", fingerprint, "error", err)
		return DedupUnknown
	}
	if n > 0 {
		return DedupDuplicate
	}
	return DedupNew
}
