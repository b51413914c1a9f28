// Package snapshot persists built graphs and holds the one currently served.
package snapshot

import (
	"context"
	"time"

	"wordgraph/backend/internal/graph"
)

// Record is a persisted graph plus the metadata of the build that produced it
type Record struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Strategy  graph.Strategy `json:"strategy"`
	Snapshot  graph.Snapshot `json:"snapshot"`
}

// Metadata returns the record without its graph payload
func (r *Record) Metadata() Metadata {
	return Metadata{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Strategy:  r.Strategy,
	}
}

// Store saves and restores the latest graph snapshot
type Store interface {
	// Save replaces the stored snapshot
	Save(ctx context.Context, rec *Record) error
	// Load returns the stored snapshot, or an ErrSnapshotNotFound error
	Load(ctx context.Context) (*Record, error)
}
