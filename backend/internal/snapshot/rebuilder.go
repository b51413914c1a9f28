package snapshot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"wordgraph/backend/internal/graph"
	apperrors "wordgraph/backend/pkg/errors"
)

// WordLister provides the vocabulary to build from
type WordLister interface {
	AllWords() ([]string, error)
}

// Rebuilder builds a fresh graph off to the side, persists it and publishes it
type Rebuilder struct {
	words   WordLister
	store   Store
	holder  *Holder
	builder *graph.Builder
	logger  *zap.Logger

	mu sync.Mutex
}

// NewRebuilder wires a rebuild pipeline. store may be nil to skip persistence.
func NewRebuilder(words WordLister, store Store, holder *Holder, builder *graph.Builder, logger *zap.Logger) *Rebuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rebuilder{
		words:   words,
		store:   store,
		holder:  holder,
		builder: builder,
		logger:  logger,
	}
}

// Rebuild runs one build. Concurrent calls are serialized.
func (r *Rebuilder) Rebuild(ctx context.Context) (*Loaded, graph.BuildStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	words, err := r.words.AllWords()
	if err != nil {
		return nil, graph.BuildStats{}, fmt.Errorf("list words: %w", err)
	}
	if len(words) == 0 {
		return nil, graph.BuildStats{}, apperrors.ErrGraphEmptyVocabulary
	}

	g, stats, err := r.builder.BuildContext(ctx, words)
	if err != nil {
		return nil, stats, err
	}

	rec := &Record{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Strategy:  r.builder.Strategy(),
		Snapshot:  g.Snapshot(),
	}
	if r.store != nil {
		if err := r.store.Save(ctx, rec); err != nil {
			return nil, stats, fmt.Errorf("persist snapshot: %w", err)
		}
	}

	loaded := r.holder.Publish(g, rec.Metadata())
	r.logger.Info("Graph published",
		zap.String("snapshot_id", rec.ID),
		zap.Int("nodes", stats.Nodes),
		zap.Int("edges", stats.Edges),
		zap.Duration("build_duration", stats.Duration),
	)
	return loaded, stats, nil
}

// Restore publishes the snapshot held by store
func Restore(ctx context.Context, store Store, holder *Holder) (*Loaded, error) {
	rec, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	g, err := graph.FromSnapshot(rec.Snapshot)
	if err != nil {
		return nil, apperrors.NewStoreFailed("restore snapshot", err)
	}
	return holder.Publish(g, rec.Metadata()), nil
}
