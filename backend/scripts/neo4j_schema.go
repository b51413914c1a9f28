package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"wordgraph/backend/internal/snapshot"
	"wordgraph/backend/pkg/config"
	"wordgraph/backend/pkg/logger"
)

// Prepares a Neo4j database for SNAPSHOT_BACKEND=neo4j.
//
//	go run ./backend/scripts -reset
func main() {
	reset := flag.Bool("reset", false, "Delete the stored word graph snapshot")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Preparing Neo4j schema...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	if *reset {
		log.Warn("Deleting stored snapshot...")
		if err := deleteSnapshot(ctx, driver); err != nil {
			log.Fatal("Failed to delete snapshot", zap.Error(err))
		}
	}

	// Create constraints and indexes
	store := snapshot.NewNeo4jStore(driver, cfg.Neo4jURI, log)
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to create schema", zap.Error(err))
	}

	counts, err := countNodes(ctx, driver)
	if err != nil {
		log.Fatal("Failed to verify schema", zap.Error(err))
	}

	log.Info("Schema ready",
		zap.Int("statements", len(snapshot.SchemaStatements)),
		zap.Int64("words", counts["words"]),
		zap.Int64("snapshots", counts["snapshots"]),
	)
}

func deleteSnapshot(ctx context.Context, driver neo4j.DriverWithContext) error {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (n) WHERE n:Word OR n:GraphSnapshot
		CALL { WITH n DETACH DELETE n } IN TRANSACTIONS OF 10000 ROWS
	`, nil)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}

func countNodes(ctx context.Context, driver neo4j.DriverWithContext) (map[string]int64, error) {
	session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		OPTIONAL MATCH (w:Word) WITH count(w) AS words
		OPTIONAL MATCH (s:GraphSnapshot) RETURN words, count(s) AS snapshots
	`, nil)
	if err != nil {
		return nil, err
	}
	record, err := result.Single(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, 2)
	for _, key := range []string{"words", "snapshots"} {
		if v, ok := record.Get(key); ok {
			if n, ok := v.(int64); ok {
				counts[key] = n
			}
		}
	}
	return counts, nil
}
