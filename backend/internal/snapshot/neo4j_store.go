package snapshot

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"wordgraph/backend/internal/graph"
	apperrors "wordgraph/backend/pkg/errors"
)

// DefaultBatchSize is the number of rows sent per UNWIND statement
const DefaultBatchSize = 1000

// SchemaStatements create the constraints and indexes the store relies on.
// Words are unique per snapshot, so a new snapshot can be written next to
// the one being served.
var SchemaStatements = []string{
	"DROP CONSTRAINT word_text_unique IF EXISTS",
	"CREATE CONSTRAINT word_snapshot_text_unique IF NOT EXISTS FOR (w:Word) REQUIRE (w.snapshot, w.text) IS UNIQUE",
	"CREATE CONSTRAINT graph_snapshot_id_unique IF NOT EXISTS FOR (s:GraphSnapshot) REQUIRE s.id IS UNIQUE",
	"CREATE INDEX word_snapshot IF NOT EXISTS FOR (w:Word) ON (w.snapshot)",
	"CREATE INDEX word_length IF NOT EXISTS FOR (w:Word) ON (w.length)",
}

// cleanupTimeout bounds the removal of a failed save's words
const cleanupTimeout = 30 * time.Second

// Neo4jStore keeps the snapshot as (:Word)-[:ONE_LETTER]->(:Word) in Neo4j.
// Every Word carries the id of the snapshot it belongs to, and the single
// (:GraphSnapshot) node names the snapshot that Load returns.
type Neo4jStore struct {
	driver    neo4j.DriverWithContext
	location  string
	batchSize int
	logger    *zap.Logger
}

// NewNeo4jStore creates a snapshot store on top of an open driver. location
// is only used in error messages.
func NewNeo4jStore(driver neo4j.DriverWithContext, location string, logger *zap.Logger) *Neo4jStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Neo4jStore{
		driver:    driver,
		location:  location,
		batchSize: DefaultBatchSize,
		logger:    logger,
	}
}

// Close closes the Neo4j driver connection
func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// EnsureSchema creates constraints and indexes. Statements that fail because
// the object already exists are logged and skipped.
func (s *Neo4jStore) EnsureSchema(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range SchemaStatements {
		result, err := session.Run(ctx, stmt, nil)
		if err == nil {
			_, err = result.Consume(ctx)
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("Schema statement failed", zap.String("statement", stmt), zap.Error(err))
		}
	}
	return nil
}

// Save writes rec next to the stored snapshot and then switches to it. The
// previous snapshot stays loadable until the new GraphSnapshot node is
// committed; if any write fails, the new words are removed and the previous
// snapshot is left in place.
func (s *Neo4jStore) Save(ctx context.Context, rec *Record) error {
	start := time.Now()
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if err := s.writePending(ctx, session, rec); err != nil {
		s.discard(ctx, rec.ID)
		return err
	}

	// Creating the new metadata node and deleting the old one in one
	// statement is the commit point
	if err := s.run(ctx, session, `
		CREATE (s:GraphSnapshot {
			id: $id,
			created_at: $createdAt,
			strategy: $strategy,
			nodes: $nodes,
			edges: $edges
		})
		WITH s
		OPTIONAL MATCH (old:GraphSnapshot) WHERE old.id <> $id
		DETACH DELETE old
	`, map[string]interface{}{
		"id":        rec.ID,
		"createdAt": rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		"strategy":  string(rec.Strategy),
		"nodes":     len(rec.Snapshot.Nodes),
		"edges":     len(rec.Snapshot.Edges),
	}); err != nil {
		s.discard(ctx, rec.ID)
		return apperrors.NewStoreFailed("save snapshot metadata", err)
	}

	// The new snapshot is live; stale words are only garbage from here on
	if err := s.run(ctx, session, `
		MATCH (w:Word) WHERE w.snapshot IS NULL OR w.snapshot <> $id
		CALL { WITH w DETACH DELETE w } IN TRANSACTIONS OF 10000 ROWS
	`, map[string]interface{}{"id": rec.ID}); err != nil {
		s.logger.Warn("Failed to remove previous snapshot words",
			zap.String("snapshot_id", rec.ID),
			zap.Error(err),
		)
	}

	s.logger.Info("Snapshot saved to Neo4j",
		zap.String("snapshot_id", rec.ID),
		zap.Int("nodes", len(rec.Snapshot.Nodes)),
		zap.Int("edges", len(rec.Snapshot.Edges)),
		zap.Duration("duration", time.Since(start)),
	)
	return nil
}

// writePending writes the words and edges of rec, tagged with rec.ID
func (s *Neo4jStore) writePending(ctx context.Context, session neo4j.SessionWithContext, rec *Record) error {
	for _, batch := range wordBatches(rec.Snapshot.Nodes, s.batchSize) {
		if err := s.run(ctx, session, `
			UNWIND $words AS word
			CREATE (:Word {snapshot: $id, text: word.text, length: word.length})
		`, map[string]interface{}{"id": rec.ID, "words": batch}); err != nil {
			return apperrors.NewStoreFailed("save words", err)
		}
	}

	for _, batch := range edgeBatches(rec.Snapshot.Edges, s.batchSize) {
		if err := s.run(ctx, session, `
			UNWIND $edges AS edge
			MATCH (a:Word {snapshot: $id, text: edge.a}), (b:Word {snapshot: $id, text: edge.b})
			CREATE (a)-[:ONE_LETTER]->(b)
		`, map[string]interface{}{"id": rec.ID, "edges": batch}); err != nil {
			return apperrors.NewStoreFailed("save edges", err)
		}
	}
	return nil
}

// discard removes the words of an unfinished save. Words of a committed
// snapshot with the same id are left alone. It runs even when ctx is already
// cancelled.
func (s *Neo4jStore) discard(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
	defer cancel()

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	if err := s.run(ctx, session, `
		MATCH (w:Word {snapshot: $id})
		WHERE NOT EXISTS { MATCH (:GraphSnapshot {id: $id}) }
		CALL { WITH w DETACH DELETE w } IN TRANSACTIONS OF 10000 ROWS
	`, map[string]interface{}{"id": id}); err != nil {
		s.logger.Warn("Failed to discard unfinished snapshot",
			zap.String("snapshot_id", id),
			zap.Error(err),
		)
	}
}

// Load reads the snapshot named by the GraphSnapshot node
func (s *Neo4jStore) Load(ctx context.Context) (*Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (s:GraphSnapshot)
		RETURN s.id AS id, s.created_at AS created_at, s.strategy AS strategy,
		       s.nodes AS nodes, s.edges AS edges
		LIMIT 1
	`, nil)
	if err != nil {
		return nil, apperrors.NewStoreFailed("load snapshot metadata", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewStoreFailed("load snapshot metadata", err)
		}
		return nil, apperrors.NewSnapshotNotFound(s.location)
	}
	record := result.Record()

	wantNodes := getIntFromRecord(record, "nodes")
	wantEdges := getIntFromRecord(record, "edges")
	rec := &Record{
		ID:        getStringFromRecord(record, "id"),
		CreatedAt: getTimeFromRecord(record, "created_at"),
		Strategy:  graph.Strategy(getStringFromRecord(record, "strategy")),
	}
	params := map[string]interface{}{"id": rec.ID}

	result, err = session.Run(ctx, `
		MATCH (w:Word {snapshot: $id})
		RETURN w.text AS text
		ORDER BY text
	`, params)
	if err != nil {
		return nil, apperrors.NewStoreFailed("load words", err)
	}
	nodes := []string{}
	for result.Next(ctx) {
		nodes = append(nodes, getStringFromRecord(result.Record(), "text"))
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStoreFailed("load words", err)
	}

	result, err = session.Run(ctx, `
		MATCH (a:Word {snapshot: $id})-[:ONE_LETTER]->(b:Word {snapshot: $id})
		RETURN a.text AS a, b.text AS b
		ORDER BY a, b
	`, params)
	if err != nil {
		return nil, apperrors.NewStoreFailed("load edges", err)
	}
	edges := [][2]string{}
	for result.Next(ctx) {
		r := result.Record()
		edges = append(edges, [2]string{getStringFromRecord(r, "a"), getStringFromRecord(r, "b")})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewStoreFailed("load edges", err)
	}

	if len(nodes) != wantNodes || len(edges) != wantEdges {
		return nil, apperrors.NewStoreFailed("load snapshot", fmt.Errorf(
			"snapshot %s incomplete: %d/%d words, %d/%d edges",
			rec.ID, len(nodes), wantNodes, len(edges), wantEdges))
	}

	rec.Snapshot = graph.Snapshot{Nodes: nodes, Edges: edges}
	return rec, nil
}

func (s *Neo4jStore) run(ctx context.Context, session neo4j.SessionWithContext, query string, params map[string]interface{}) error {
	result, err := session.Run(ctx, query, params)
	if err != nil {
		return err
	}
	_, err = result.Consume(ctx)
	return err
}

func wordBatches(words []string, size int) [][]map[string]interface{} {
	var batches [][]map[string]interface{}
	for start := 0; start < len(words); start += size {
		end := min(start+size, len(words))
		batch := make([]map[string]interface{}, 0, end-start)
		for _, w := range words[start:end] {
			batch = append(batch, map[string]interface{}{
				"text":   w,
				"length": utf8.RuneCountInString(w),
			})
		}
		batches = append(batches, batch)
	}
	return batches
}

func edgeBatches(edges [][2]string, size int) [][]map[string]interface{} {
	var batches [][]map[string]interface{}
	for start := 0; start < len(edges); start += size {
		end := min(start+size, len(edges))
		batch := make([]map[string]interface{}, 0, end-start)
		for _, e := range edges[start:end] {
			batch = append(batch, map[string]interface{}{"a": e[0], "b": e[1]})
		}
		batches = append(batches, batch)
	}
	return batches
}

// String describes the store for logs
func (s *Neo4jStore) String() string {
	return fmt.Sprintf("neo4j(%s)", s.location)
}
