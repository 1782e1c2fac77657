package graphrag_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	graphrag "github.com/quarryhq/graphrag"
	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/quarryhq/graphrag/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vecEmbedder returns canned vectors keyed by text and a zero vector for
// anything unknown.
type vecEmbedder struct {
	vectors map[string][]float32
	dim     int
}

func (e *vecEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if v, ok := e.vectors[text]; ok {
			out[i] = v
		} else {
			out[i] = make([]float32, e.dim)
		}
	}
	return out, nil
}

func (e *vecEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *vecEmbedder) Dimensions() int { return e.dim }
func (e *vecEmbedder) Close() error    { return nil }

// memGraph is an in-memory graph.Service good enough for pipeline tests.
type memGraph struct {
	neighbors  map[string][]string // seed -> reachable node IDs
	centrality map[string]float64
	upserts    int
	chunks     []types.Chunk
	entities   []types.Entity
	relations  []types.Relation
}

func (g *memGraph) Neighbors(ctx context.Context, seedIDs []string, maxHops, limit int) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	for _, seed := range seedIDs {
		for _, id := range g.neighbors[seed] {
			if !seen[id] {
				seen[id] = true
				out = append(out, id)
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (g *memGraph) Centrality(ctx context.Context, ids []string) ([]types.CentralityScore, error) {
	var out []types.CentralityScore
	for _, id := range ids {
		if score, ok := g.centrality[id]; ok {
			out = append(out, types.CentralityScore{ID: id, Score: score})
		}
	}
	return out, nil
}

func (g *memGraph) Upsert(ctx context.Context, chunks []types.Chunk, entities []types.Entity, relations []types.Relation) error {
	g.upserts++
	g.chunks = append(g.chunks, chunks...)
	g.entities = append(g.entities, entities...)
	g.relations = append(g.relations, relations...)
	return nil
}

func (g *memGraph) Close(ctx context.Context) error { return nil }

// routedChat answers extraction prompts with entities and everything else
// with a fixed answer.
type routedChat struct {
	entityJSON string
	answer     string
}

func (c *routedChat) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if strings.Contains(systemPrompt, "entity recognition") {
		return c.entityJSON, nil
	}
	return c.answer, nil
}

func (c *routedChat) Close() error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		Retrieval: config.RetrievalConfig{
			TopKVectors:      10,
			TopKGraph:        10,
			MaxHops:          2,
			AlphaSemantic:    0.6,
			WeightSemantic:   0.7,
			WeightCentrality: 0.3,
		},
		Generation: config.GenerationConfig{ContextChunks: 3},
		Ingestion: config.IngestionConfig{
			ChunkSize:      500,
			ChunkOverlap:   50,
			AllowedFormats: []string{".txt", ".md"},
		},
	}
}

func TestClientRequiresCollaborators(t *testing.T) {
	emb := &vecEmbedder{dim: 3}
	svc := &memGraph{}
	chat := &routedChat{entityJSON: "[]"}

	_, err := graphrag.NewClient(nil, svc, chat, testConfig(), nil)
	require.Error(t, err)

	_, err = graphrag.NewClient(emb, nil, chat, testConfig(), nil)
	require.Error(t, err)

	_, err = graphrag.NewClient(emb, svc, chat, nil, nil)
	require.Error(t, err)

	client, err := graphrag.NewClient(emb, svc, chat, testConfig(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, client.Count())
}

func TestQueryBlendsSemanticAndGraphSignals(t *testing.T) {
	// c2 matches the query semantically and is reachable from the query's
	// entity, so it must come out on top after merge and rerank.
	emb := &vecEmbedder{
		dim: 3,
		vectors: map[string][]float32{
			"beta is a pre-release stage": {1, 0, 0},
			"alpha comes before beta":     {0.5, 0.5, 0},
			"the roadmap covers Q3":       {0, 0, 1},
			"what is beta":                {0.9, 0.1, 0},
		},
	}
	svc := &memGraph{
		neighbors:  map[string][]string{"ent_beta": {"c2", "c1"}},
		centrality: map[string]float64{"c2": 0.8, "c1": 0.4, "c3": 0.1},
	}
	chat := &routedChat{
		entityJSON: `[{"label": "beta", "type": "CONCEPT"}]`,
		answer:     "Beta is a pre-release stage. [1]",
	}

	client, err := graphrag.NewClient(emb, svc, chat, testConfig(), nil)
	require.NoError(t, err)

	err = client.Index(context.Background(), []types.Chunk{
		{ID: "c1", Text: "alpha comes before beta", SourceDocument: "d1"},
		{ID: "c2", Text: "beta is a pre-release stage", SourceDocument: "d1"},
		{ID: "c3", Text: "the roadmap covers Q3", SourceDocument: "d2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, client.Count())

	retrieved, err := client.Retrieve(context.Background(), "what is beta")
	require.NoError(t, err)
	assert.NotEmpty(t, retrieved.Semantic)
	assert.Len(t, retrieved.Graph, 2, "both neighbors resolve to indexed chunks")

	reranked, err := client.Query(context.Background(), "what is beta")
	require.NoError(t, err)
	require.NotEmpty(t, reranked.Items)
	assert.Equal(t, "c2", reranked.Items[0].Chunk.ID)
}

func TestAnswerCitesContextChunks(t *testing.T) {
	emb := &vecEmbedder{
		dim:     2,
		vectors: map[string][]float32{"beta is a pre-release stage": {1, 0}, "what is beta": {1, 0}},
	}
	svc := &memGraph{}
	chat := &routedChat{entityJSON: "[]", answer: "Beta is a pre-release stage. [1]"}

	client, err := graphrag.NewClient(emb, svc, chat, testConfig(), nil)
	require.NoError(t, err)

	err = client.Index(context.Background(), []types.Chunk{
		{ID: "c2", Text: "beta is a pre-release stage", SourceDocument: "d1"},
	})
	require.NoError(t, err)

	result, err := client.Answer(context.Background(), "what is beta")
	require.NoError(t, err)
	assert.Equal(t, "Beta is a pre-release stage. [1]", result.Answer)
	require.Len(t, result.Citations, 1)
	assert.Equal(t, "c2", result.Citations[0].ChunkID)
	assert.Equal(t, "d1", result.Citations[0].SourceDocument)
}

func TestAnswerWithEmptyIndex(t *testing.T) {
	emb := &vecEmbedder{dim: 2}
	client, err := graphrag.NewClient(emb, &memGraph{}, &routedChat{entityJSON: "[]"}, testConfig(), nil)
	require.NoError(t, err)

	result, err := client.Answer(context.Background(), "anything")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Answer)
	assert.Empty(t, result.Citations)
}

func TestIngestDocumentsIndexesAndUpserts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "launch.txt")
	text := "Quarry launched its beta program in Oslo last spring."
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	words := strings.Fields(text)
	emb := &vecEmbedder{dim: 2, vectors: map[string][]float32{strings.Join(words, " "): {1, 0}}}
	svc := &memGraph{}
	chat := &routedChat{entityJSON: `[{"label": "Quarry", "type": "ORG"}, {"label": "Oslo", "type": "LOC"}]`}

	client, err := graphrag.NewClient(emb, svc, chat, testConfig(), nil)
	require.NoError(t, err)

	result, err := client.IngestDocuments(context.Background(), []string{path})
	require.NoError(t, err)

	require.Len(t, result.Chunks, 1)
	assert.Len(t, result.Entities, 2)
	assert.Equal(t, 1, client.Count())
	assert.Equal(t, 1, svc.upserts)
	assert.Len(t, svc.chunks, 1)
	assert.Len(t, svc.entities, 2)
	assert.NotEmpty(t, svc.relations)

	// Re-ingesting the same file is idempotent for the vector index.
	_, err = client.IngestDocuments(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, 1, client.Count())
}
