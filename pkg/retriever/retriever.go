package retriever

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/quarryhq/graphrag/pkg/embedder"
	"github.com/quarryhq/graphrag/pkg/graph"
	"github.com/quarryhq/graphrag/pkg/types"
)

// Retriever owns the chunk repository and the append-only vector index and
// executes hybrid queries against them.
type Retriever struct {
	config   config.RetrievalConfig
	embedder embedder.Client
	graph    graph.Service
	log      *slog.Logger

	mu      sync.RWMutex
	ids     []string               // positional offset -> chunk ID
	byID    map[string]types.Chunk // chunk repository
	vectors [][]float32            // positional offset -> embedding
	dim     int                    // 0 until the first successful Index
}

// New creates a Retriever with an empty index.
func New(cfg config.RetrievalConfig, emb embedder.Client, svc graph.Service, log *slog.Logger) *Retriever {
	if log == nil {
		log = slog.Default()
	}
	return &Retriever{
		config:   cfg,
		embedder: emb,
		graph:    svc,
		log:      log,
		byID:     make(map[string]types.Chunk),
	}
}

// Count returns the number of indexed chunks.
func (r *Retriever) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.ids)
}

// ChunkByID looks up a chunk in the repository.
func (r *Retriever) ChunkByID(id string) (types.Chunk, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chunk, ok := r.byID[id]
	return chunk, ok
}

// Index embeds and appends the given chunks. Chunks whose ID is already
// indexed are skipped, so calling Index twice with the same set is a no-op.
// New chunks are embedded in one batched provider call; the batch is
// validated and appended atomically under the write lock, so readers never
// observe a half-inserted batch and a failed batch changes nothing.
func (r *Retriever) Index(ctx context.Context, chunks []types.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Dedup against the repository and within the batch itself.
	seen := make(map[string]bool, len(chunks))
	newChunks := make([]types.Chunk, 0, len(chunks))
	for _, chunk := range chunks {
		if _, exists := r.byID[chunk.ID]; exists || seen[chunk.ID] {
			continue
		}
		seen[chunk.ID] = true
		newChunks = append(newChunks, chunk)
	}
	if len(newChunks) == 0 {
		return nil
	}

	texts := make([]string, len(newChunks))
	for i, chunk := range newChunks {
		texts[i] = chunk.Text
	}

	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunk batch: %w", err)
	}

	dim, err := validateBatch(vectors, len(newChunks))
	if err != nil {
		return err
	}
	if r.dim != 0 && dim != r.dim {
		return &DimensionMismatchError{Expected: r.dim, Got: dim}
	}

	if r.dim == 0 {
		r.dim = dim
	}
	for i, chunk := range newChunks {
		r.ids = append(r.ids, chunk.ID)
		r.vectors = append(r.vectors, vectors[i])
		r.byID[chunk.ID] = chunk
	}

	r.log.Debug("indexed chunk batch", "new", len(newChunks), "total", len(r.ids))
	return nil
}

// validateBatch checks that the provider returned one non-empty vector per
// text, all of equal length, and reports that length.
func validateBatch(vectors [][]float32, want int) (int, error) {
	if len(vectors) != want {
		return 0, &ValidationError{Reason: fmt.Sprintf("got %d vectors for %d texts", len(vectors), want)}
	}
	dim := 0
	for i, v := range vectors {
		if len(v) == 0 {
			return 0, &ValidationError{Reason: fmt.Sprintf("vector %d is empty", i)}
		}
		if dim == 0 {
			dim = len(v)
		} else if len(v) != dim {
			return 0, &ValidationError{Reason: fmt.Sprintf("vector %d has %d dims, expected %d", i, len(v), dim)}
		}
	}
	return dim, nil
}

// Retrieve executes a hybrid query: semantic search over the vector index
// and graph expansion from the seed entities, issued concurrently, then
// merged into one deduplicated ranking. A graph service failure degrades the
// expansion to empty; an embedding failure fails the call.
func (r *Retriever) Retrieve(ctx context.Context, query string, seedEntityIDs []string) (*types.RetrievalResult, error) {
	graphCh := make(chan []types.RetrievedChunk, 1)
	go func() {
		graphCh <- r.expand(ctx, seedEntityIDs)
	}()

	semantic, err := r.search(ctx, query)
	if err != nil {
		return nil, err
	}
	graphHits := <-graphCh

	return &types.RetrievalResult{
		Semantic: semantic,
		Graph:    graphHits,
		Merged:   r.Merge(semantic, graphHits),
	}, nil
}

// search returns the top-K chunks nearest to the query embedding by inner
// product. An empty index yields an empty result, never an error.
func (r *Retriever) search(ctx context.Context, query string) ([]types.RetrievedChunk, error) {
	if r.Count() == 0 {
		return nil, nil
	}

	queryVec, err := r.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	k := r.config.TopKVectors
	if len(r.ids) < k {
		k = len(r.ids)
	}

	type scored struct {
		offset int
		score  float64
	}
	scores := make([]scored, len(r.vectors))
	for i, vec := range r.vectors {
		scores[i] = scored{offset: i, score: innerProduct(queryVec, vec)}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].score > scores[j].score })

	hits := make([]types.RetrievedChunk, 0, k)
	for _, s := range scores[:k] {
		// Offsets that no longer resolve to a known chunk are skipped rather
		// than failing the search.
		if s.offset < 0 || s.offset >= len(r.ids) {
			continue
		}
		chunk, ok := r.byID[r.ids[s.offset]]
		if !ok {
			continue
		}
		hits = append(hits, types.RetrievedChunk{Chunk: chunk, Score: s.score})
	}
	return hits, nil
}

// expand asks the graph service for chunk IDs reachable from the seed
// entities. Every resolved hit carries a flat score of 1.0; relevance
// differentiation is the reranker's job. Node IDs that are not chunks are
// dropped.
func (r *Retriever) expand(ctx context.Context, seedEntityIDs []string) []types.RetrievedChunk {
	if len(seedEntityIDs) == 0 {
		return nil
	}

	nodeIDs, err := r.graph.Neighbors(ctx, seedEntityIDs, r.config.MaxHops, r.config.TopKGraph)
	if err != nil {
		r.log.Warn("graph expansion degraded to empty", "error", err)
		return nil
	}

	hits := make([]types.RetrievedChunk, 0, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		chunk, ok := r.ChunkByID(nodeID)
		if !ok {
			continue
		}
		hits = append(hits, types.RetrievedChunk{Chunk: chunk, Score: 1.0})
	}
	return hits
}

// Merge reconciles the two candidate lists into one deduplicated ranking.
// Semantic entries seed the map at their original score; a graph entry
// either blends into an existing semantic entry (alpha*semantic +
// (1-alpha)*graph) or is inserted at its own score.
func (r *Retriever) Merge(semantic, graphHits []types.RetrievedChunk) []types.RetrievedChunk {
	alpha := r.config.AlphaSemantic

	merged := make(map[string]types.RetrievedChunk, len(semantic)+len(graphHits))
	for _, hit := range semantic {
		merged[hit.Chunk.ID] = hit
	}
	for _, hit := range graphHits {
		if existing, ok := merged[hit.Chunk.ID]; ok {
			existing.Score = alpha*existing.Score + (1-alpha)*hit.Score
			merged[hit.Chunk.ID] = existing
		} else {
			merged[hit.Chunk.ID] = hit
		}
	}

	out := make([]types.RetrievedChunk, 0, len(merged))
	for _, hit := range merged {
		out = append(out, hit)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func innerProduct(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
