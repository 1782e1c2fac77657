package graph

import (
	"context"

	"github.com/quarryhq/graphrag/pkg/types"
)

// Service is the capability set the retrieval core consumes from a graph
// database. Implementations may return node IDs of any type from Neighbors
// (chunk, document, or entity nodes); the caller filters for chunks.
type Service interface {
	// Neighbors returns IDs of nodes reachable from the seed nodes within
	// maxHops hops, excluding the seeds themselves, up to limit results.
	Neighbors(ctx context.Context, seedIDs []string, maxHops, limit int) ([]string, error)

	// Centrality returns a connectedness score in [0,1] for each of the given
	// node IDs. IDs unknown to the graph are omitted from the result.
	Centrality(ctx context.Context, ids []string) ([]types.CentralityScore, error)

	// Upsert writes chunks, entities, and relations into the graph. Used by
	// the ingestion stage; retrieval never mutates the graph.
	Upsert(ctx context.Context, chunks []types.Chunk, entities []types.Entity, relations []types.Relation) error

	// Close releases the underlying database connection.
	Close(ctx context.Context) error
}
