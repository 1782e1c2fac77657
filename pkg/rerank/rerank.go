// Package rerank adjusts a merged retrieval ranking with a graph centrality
// prior. Well-connected chunks are nudged up; chunks the graph knows nothing
// about keep a centrality of zero but are never dropped.
package rerank

import (
	"context"
	"log/slog"
	"sort"

	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/quarryhq/graphrag/pkg/graph"
	"github.com/quarryhq/graphrag/pkg/types"
)

// Reranker blends merged retrieval scores with graph centrality.
type Reranker struct {
	config config.RetrievalConfig
	graph  graph.Service
	log    *slog.Logger
}

// New creates a Reranker using the configured blend weights.
func New(cfg config.RetrievalConfig, svc graph.Service, log *slog.Logger) *Reranker {
	if log == nil {
		log = slog.Default()
	}
	return &Reranker{config: cfg, graph: svc, log: log}
}

// Rerank recomputes each merged item's score as
//
//	final = weight_semantic*score + weight_centrality*centrality
//
// and re-sorts descending. If the centrality lookup fails or returns nothing
// the merged ranking is returned unchanged: graph unavailability must never
// discard a valid semantic ordering. Given the same inputs and graph state,
// the result is deterministic.
func (r *Reranker) Rerank(ctx context.Context, result *types.RetrievalResult) (*types.RerankedResult, error) {
	if result == nil || len(result.Merged) == 0 {
		return &types.RerankedResult{}, nil
	}

	ids := make([]string, len(result.Merged))
	for i, hit := range result.Merged {
		ids[i] = hit.Chunk.ID
	}

	scores, err := r.graph.Centrality(ctx, ids)
	if err != nil {
		r.log.Warn("centrality lookup failed, returning merged order", "error", err)
		return &types.RerankedResult{Items: append([]types.RetrievedChunk(nil), result.Merged...)}, nil
	}
	if len(scores) == 0 {
		return &types.RerankedResult{Items: append([]types.RetrievedChunk(nil), result.Merged...)}, nil
	}

	centrality := make(map[string]float64, len(scores))
	for _, s := range scores {
		centrality[s.ID] = s.Score
	}

	items := make([]types.RetrievedChunk, len(result.Merged))
	for i, hit := range result.Merged {
		// Missing centrality counts as zero; the chunk stays in the ranking.
		final := r.config.WeightSemantic*hit.Score + r.config.WeightCentrality*centrality[hit.Chunk.ID]
		items[i] = types.RetrievedChunk{Chunk: hit.Chunk, Score: final}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Score > items[j].Score })

	return &types.RerankedResult{Items: items}, nil
}
