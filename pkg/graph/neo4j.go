package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/quarryhq/graphrag/pkg/types"
)

// Neo4jService implements the Service interface for Neo4j databases.
//
// Schema: (:Document {id}), (:Chunk {id, text, source_document}),
// (:Entity {id, label, type}); relation types from ingestion become
// uppercase relationship types (PART_OF, MENTIONS, CO_OCCURS) carrying the
// relation score.
type Neo4jService struct {
	client   neo4j.DriverWithContext
	database string
}

// NewNeo4jService creates a new Neo4j service instance.
func NewNeo4jService(uri, username, password, database string) (*Neo4jService, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jService{
		client:   driver,
		database: database,
	}, nil
}

// Neighbors returns node IDs reachable from the seeds within maxHops hops.
// The hop bound is inlined into the pattern because Cypher does not allow
// parameters inside variable-length expressions.
func (s *Neo4jService) Neighbors(ctx context.Context, seedIDs []string, maxHops, limit int) ([]string, error) {
	if len(seedIDs) == 0 {
		return nil, nil
	}

	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := fmt.Sprintf(`
			MATCH (seed)
			WHERE seed.id IN $seedIDs
			MATCH (seed)-[*1..%d]-(neighbor)
			WHERE neighbor.id IS NOT NULL AND NOT neighbor.id IN $seedIDs
			RETURN DISTINCT neighbor.id AS id
			LIMIT $limit
		`, maxHops)

		res, err := tx.Run(ctx, query, map[string]any{
			"seedIDs": seedIDs,
			"limit":   limit,
		})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("neighbor query failed: %w", err)
	}

	records := result.([]*db.Record)
	ids := make([]string, 0, len(records))
	for _, record := range records {
		value, found := record.Get("id")
		if !found {
			continue
		}
		id, ok := value.(string)
		if !ok {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// Centrality returns degree centrality for the given node IDs, normalized by
// the largest degree in the queried set so scores land in [0,1]. IDs not
// present in the graph are omitted.
func (s *Neo4jService) Centrality(ctx context.Context, ids []string) ([]types.CentralityScore, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MATCH (n)
			WHERE n.id IN $ids
			OPTIONAL MATCH (n)--(m)
			RETURN n.id AS id, count(m) AS degree
		`

		res, err := tx.Run(ctx, query, map[string]any{"ids": ids})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("centrality query failed: %w", err)
	}

	records := result.([]*db.Record)
	scores := make([]types.CentralityScore, 0, len(records))
	var maxDegree int64
	degrees := make(map[string]int64, len(records))

	for _, record := range records {
		idValue, found := record.Get("id")
		if !found {
			continue
		}
		id, ok := idValue.(string)
		if !ok {
			continue
		}
		degreeValue, _ := record.Get("degree")
		degree, _ := degreeValue.(int64)
		degrees[id] = degree
		if degree > maxDegree {
			maxDegree = degree
		}
	}

	for id, degree := range degrees {
		score := 0.0
		if maxDegree > 0 {
			score = float64(degree) / float64(maxDegree)
		}
		scores = append(scores, types.CentralityScore{ID: id, Score: score})
	}

	return scores, nil
}

// Upsert writes chunks, entities, and relations in batched MERGE statements
// within a single write transaction.
func (s *Neo4jService) Upsert(ctx context.Context, chunks []types.Chunk, entities []types.Entity, relations []types.Relation) error {
	session := s.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: s.database})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := upsertChunks(ctx, tx, chunks); err != nil {
			return nil, err
		}
		if err := upsertEntities(ctx, tx, entities); err != nil {
			return nil, err
		}
		return nil, upsertRelations(ctx, tx, relations)
	})
	if err != nil {
		return fmt.Errorf("graph upsert failed: %w", err)
	}
	return nil
}

// Close releases the underlying driver.
func (s *Neo4jService) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}

func upsertChunks(ctx context.Context, tx neo4j.ManagedTransaction, chunks []types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	rows := make([]map[string]any, len(chunks))
	for i, c := range chunks {
		rows[i] = map[string]any{
			"id":              c.ID,
			"text":            c.Text,
			"source_document": c.SourceDocument,
		}
	}

	query := `
		UNWIND $rows AS row
		MERGE (d:Document {id: row.source_document})
		MERGE (c:Chunk {id: row.id})
		SET c.text = row.text, c.source_document = row.source_document
	`
	_, err := tx.Run(ctx, query, map[string]any{"rows": rows})
	return err
}

func upsertEntities(ctx context.Context, tx neo4j.ManagedTransaction, entities []types.Entity) error {
	if len(entities) == 0 {
		return nil
	}

	rows := make([]map[string]any, len(entities))
	for i, e := range entities {
		rows[i] = map[string]any{
			"id":    e.ID,
			"label": e.Label,
			"type":  e.Type,
		}
	}

	query := `
		UNWIND $rows AS row
		MERGE (e:Entity {id: row.id})
		SET e.label = row.label, e.type = row.type
	`
	_, err := tx.Run(ctx, query, map[string]any{"rows": rows})
	return err
}

func upsertRelations(ctx context.Context, tx neo4j.ManagedTransaction, relations []types.Relation) error {
	if len(relations) == 0 {
		return nil
	}

	// Cypher cannot parameterize relationship types, so relations are batched
	// per type with the sanitized type inlined into the query.
	byType := make(map[string][]map[string]any)
	for _, r := range relations {
		byType[r.Type] = append(byType[r.Type], map[string]any{
			"head":  r.Head,
			"tail":  r.Tail,
			"score": r.Score,
		})
	}

	for relType, rows := range byType {
		query := fmt.Sprintf(`
			UNWIND $rows AS row
			MATCH (h {id: row.head})
			MATCH (t {id: row.tail})
			MERGE (h)-[r:%s]->(t)
			SET r.score = row.score
		`, RelationshipType(relType))

		if _, err := tx.Run(ctx, query, map[string]any{"rows": rows}); err != nil {
			return err
		}
	}
	return nil
}

// RelationshipType converts an ingestion relation type to a safe Cypher
// relationship type: uppercase with every non-alphanumeric collapsed to an
// underscore.
func RelationshipType(relType string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(relType) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "RELATED_TO"
	}
	return b.String()
}
