package graphrag

import (
	"context"

	"github.com/quarryhq/graphrag/pkg/generation"
	"github.com/quarryhq/graphrag/pkg/ingest"
	"github.com/quarryhq/graphrag/pkg/types"
)

// Focused interfaces over Client. Consumers should depend on the smallest
// interface that meets their needs; the HTTP handlers do exactly that.

// Indexer accepts chunks into the vector index.
type Indexer interface {
	// Index embeds and indexes the given chunks. Already-known chunk IDs are
	// skipped.
	Index(ctx context.Context, chunks []types.Chunk) error

	// Count returns the number of indexed chunks.
	Count() int
}

// Ingestor runs the document pipeline end to end.
type Ingestor interface {
	// IngestDocuments loads, chunks, extracts, indexes, and upserts the given
	// files.
	IngestDocuments(ctx context.Context, paths []string) (*ingest.Result, error)
}

// Querier executes read-only hybrid queries.
type Querier interface {
	// Retrieve returns the semantic, graph, and merged candidate lists for a
	// query.
	Retrieve(ctx context.Context, query string) (*types.RetrievalResult, error)

	// Query retrieves and reranks in one call.
	Query(ctx context.Context, query string) (*types.RerankedResult, error)
}

// Answerer produces grounded answers.
type Answerer interface {
	// Answer retrieves, reranks, and generates an answer with citations.
	Answer(ctx context.Context, query string) (*generation.Result, error)
}

// Compile-time check that Client composes all focused interfaces.
var _ interface {
	Indexer
	Ingestor
	Querier
	Answerer
} = (*Client)(nil)
