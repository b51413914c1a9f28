// Package app wires configuration into the stores and services shared by the
// server and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"wordgraph/backend/internal/graph"
	"wordgraph/backend/internal/snapshot"
	"wordgraph/backend/internal/wordstore"
	"wordgraph/backend/pkg/config"
)

// OpenDatamart opens the word datamart at cfg.DatamartPath
func OpenDatamart(cfg *config.Config, log *zap.Logger) (*wordstore.Store, error) {
	wcfg := wordstore.DefaultConfig(cfg.DatamartPath)
	wcfg.Logger = log.Named("datamart")
	return wordstore.Open(wcfg)
}

// OpenSnapshotStore returns the configured snapshot backend and a function
// releasing its resources
func OpenSnapshotStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (snapshot.Store, func(), error) {
	switch cfg.SnapshotBackend {
	case config.SnapshotBackendNeo4j:
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("create Neo4j driver: %w", err)
		}
		if err := driver.VerifyConnectivity(ctx); err != nil {
			_ = driver.Close(context.Background())
			return nil, nil, fmt.Errorf("verify Neo4j connectivity: %w", err)
		}
		store := snapshot.NewNeo4jStore(driver, cfg.Neo4jURI, log.Named("neo4j"))
		if err := store.EnsureSchema(ctx); err != nil {
			_ = driver.Close(context.Background())
			return nil, nil, err
		}
		return store, func() { _ = store.Close(context.Background()) }, nil
	default:
		return snapshot.NewFileStore(cfg.SnapshotPath), func() {}, nil
	}
}

// NewBuilder creates a graph builder for the configured strategy
func NewBuilder(cfg *config.Config, log *zap.Logger) (*graph.Builder, error) {
	strategy, err := graph.ParseStrategy(cfg.BuildStrategy)
	if err != nil {
		return nil, err
	}
	return graph.NewBuilder(strategy, log.Named("builder")), nil
}

// NewHolder creates the serving handle with the configured analyzer bounds
func NewHolder(cfg *config.Config) *snapshot.Holder {
	var opts []graph.Option
	if cfg.MaxDiameterComponent > 0 {
		opts = append(opts, graph.WithMaxComponentSize(cfg.MaxDiameterComponent))
	}
	return snapshot.NewHolder(opts...)
}
