package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wordgraph/backend/internal/graph"
	"wordgraph/backend/internal/snapshot"
	"wordgraph/backend/pkg/config"
)

func TestOpenSnapshotStore_File(t *testing.T) {
	cfg := &config.Config{
		SnapshotBackend: config.SnapshotBackendFile,
		SnapshotPath:    filepath.Join(t.TempDir(), "graph.json"),
	}
	store, closeFn, err := OpenSnapshotStore(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	fs, ok := store.(*snapshot.FileStore)
	require.True(t, ok)
	assert.Equal(t, cfg.SnapshotPath, fs.Path())
}

func TestNewBuilder(t *testing.T) {
	b, err := NewBuilder(&config.Config{BuildStrategy: "Naive"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, graph.StrategyNaive, b.Strategy())

	_, err = NewBuilder(&config.Config{BuildStrategy: "quantum"}, zap.NewNop())
	require.ErrorIs(t, err, graph.ErrUnknownStrategy)
}

func TestNewHolder_ComponentBound(t *testing.T) {
	h := NewHolder(&config.Config{MaxDiameterComponent: 2})
	g := graph.NewBuilder(graph.StrategyBucketed, nil).Build([]string{"dog", "dot", "cot"})
	l := h.Publish(g, snapshot.Metadata{})

	report, err := l.Analyzer.MaximumDistanceContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
}

func TestOpenDatamart(t *testing.T) {
	cfg := &config.Config{DatamartPath: filepath.Join(t.TempDir(), "datamart")}
	store, err := OpenDatamart(cfg, zap.NewNop())
	require.NoError(t, err)
	defer store.Close()

	words, err := store.AllWords()
	require.NoError(t, err)
	assert.Empty(t, words)
}
