package graphstore

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"golang.org/x/sync/semaphore"

	"github.com/benefitdesk/insurance-assistant/pkg/log"
)

const defaultMaxConcurrent = 8

// Config holds the Neo4j connection settings.
type Config struct {
	URI           string
	Username      string
	Password      string
	MaxConcurrent int
}

// Store wraps a Neo4j driver behind the query shape the graph tools
// depend on: query text plus parameters in, flattened records out.
// Safe for concurrent use; in-flight queries are bounded by a
// semaphore so a burst of turns cannot exhaust the server.
type Store struct {
	driver neo4j.DriverWithContext
	sem    *semaphore.Weighted
}

// New creates a Store. The connection is established lazily by the
// driver; use Ping to verify connectivity at startup.
func New(cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, fmt.Errorf("graph store URI is required")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	return &Store{
		driver: driver,
		sem:    semaphore.NewWeighted(int64(maxConcurrent)),
	}, nil
}

// RunQuery executes a read query and returns one map per record.
// Node values are flattened to their property maps; lists are
// normalized element-wise. Scalars pass through unchanged.
func (s *Store) RunQuery(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("failed to acquire query slot: %w", err)
	}
	defer s.sem.Release(1)

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	var rows []map[string]any
	for result.Next(ctx) {
		rows = append(rows, normalizeRecord(result.Record().Keys, result.Record().Values))
	}
	if err := result.Err(); err != nil {
		return nil, fmt.Errorf("query iteration failed: %w", err)
	}

	return rows, nil
}

// Schema constraints for the insurance graph. Idempotent.
var schemaConstraints = []string{
	"CREATE CONSTRAINT plan_id IF NOT EXISTS FOR (p:Plan) REQUIRE p.id IS UNIQUE",
	"CREATE CONSTRAINT policy_id IF NOT EXISTS FOR (p:Policy) REQUIRE p.id IS UNIQUE",
	"CREATE CONSTRAINT claim_id IF NOT EXISTS FOR (c:Claim) REQUIRE c.id IS UNIQUE",
	"CREATE CONSTRAINT benefit_id IF NOT EXISTS FOR (b:Benefit) REQUIRE b.id IS UNIQUE",
	"CREATE CONSTRAINT exclusion_id IF NOT EXISTS FOR (e:Exclusion) REQUIRE e.id IS UNIQUE",
}

// EnsureSchema creates the uniqueness constraints for the insurance
// node types.
func (s *Store) EnsureSchema(ctx context.Context) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, constraint := range schemaConstraints {
		if _, err := session.Run(ctx, constraint, nil); err != nil {
			return fmt.Errorf("failed to create constraint: %w", err)
		}
	}

	log.Info("Graph schema constraints ensured")
	return nil
}

// Ping verifies connectivity to the graph backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

// Close releases the underlying driver.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// normalizeRecord pairs record keys with normalized values.
func normalizeRecord(keys []string, values []any) map[string]any {
	row := make(map[string]any, len(keys))
	for i, key := range keys {
		if i < len(values) {
			row[key] = normalizeValue(values[i])
		}
	}
	return row
}

// normalizeValue flattens driver types into plain maps, lists and
// scalars so the tools layer stays independent of the driver.
func normalizeValue(v any) any {
	switch value := v.(type) {
	case neo4j.Node:
		return value.Props
	case neo4j.Relationship:
		return value.Props
	case []any:
		normalized := make([]any, 0, len(value))
		for _, item := range value {
			// collect(distinct b) over an optional match yields a
			// list holding a single null when nothing matched.
			if item == nil {
				continue
			}
			normalized = append(normalized, normalizeValue(item))
		}
		return normalized
	default:
		return v
	}
}
