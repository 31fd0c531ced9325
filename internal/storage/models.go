package storage

import "time"

// Ledger outcomes. The first three mirror successful ingestion outcomes.
const (
	OutcomeIngested      = "ingested"
	OutcomeDuplicate     = "duplicate"
	OutcomeEmptyDocument = "empty_document"
	OutcomeFailed        = "failed"
)

// IngestionRecord is one row of the ingestion ledger.
type IngestionRecord struct {
	ID            string // UUID, generated on insert when empty
	SourceID      string
	SourceType    string // url or text
	DocType       string
	Fingerprint   string // Empty when the run failed before fingerprinting
	Outcome       string
	ChunksCreated int
	Error         string
	DurationMS    int64
	CreatedAt     time.Time
}

// IngestionStats summarizes the ledger.
type IngestionStats struct {
	// Total is the number of recorded ingestion attempts.
	Total int `json:"total"`
	// ByOutcome counts attempts per outcome.
	ByOutcome map[string]int `json:"by_outcome"`
	// DistinctDocuments is the number of distinct fingerprints stored.
	DistinctDocuments int `json:"distinct_documents"`
	// ChunksStored is the sum of chunks created by successful ingestions.
	ChunksStored int `json:"chunks_stored"`
	// ChunksPerDocument describes chunk counts of successful ingestions.
	ChunksPerDocument DistributionStats `json:"chunks_per_document"`
}

// DistributionStats contains min, max, mean and p95 of a set of counts.
type DistributionStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}
