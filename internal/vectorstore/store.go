// Package vectorstore provides the semantic passage store behind the
// retrieval step. Two backends implement the same contract: an embedded
// badger store with a TF-IDF similarity index, and an elasticsearch store
// that relies on its native text ranking.
package vectorstore

import "context"

// Document is one ingested knowledge passage.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	SourceID string            `json:"sourceId"`
	Metadata map[string]string `json:"metadata,omitempty"`

	// Seq is the insertion sequence, used to break score ties so equal
	// scores always rank in a stable order.
	Seq uint64 `json:"seq"`
}

// Passage is one ranked retrieval hit.
type Passage struct {
	Text     string  `json:"text"`
	SourceID string  `json:"sourceId"`
	Score    float64 `json:"score"`
}

// Store is the semantic passage store contract.
type Store interface {
	// Upsert inserts or replaces documents by ID.
	Upsert(ctx context.Context, docs []Document) error

	// Query returns up to topK passages ranked most-similar-first for the
	// query text. Fewer than topK results is not an error.
	Query(ctx context.Context, query string, topK int) ([]Passage, error)

	// Count reports the number of stored documents.
	Count(ctx context.Context) (int, error)

	Close() error
}
