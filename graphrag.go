package graphrag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/quarryhq/graphrag/pkg/config"
	"github.com/quarryhq/graphrag/pkg/embedder"
	"github.com/quarryhq/graphrag/pkg/extract"
	"github.com/quarryhq/graphrag/pkg/generation"
	"github.com/quarryhq/graphrag/pkg/graph"
	"github.com/quarryhq/graphrag/pkg/ingest"
	"github.com/quarryhq/graphrag/pkg/llm"
	"github.com/quarryhq/graphrag/pkg/rerank"
	"github.com/quarryhq/graphrag/pkg/retriever"
	"github.com/quarryhq/graphrag/pkg/types"
)

// Client wires the full pipeline together: ingestion, indexing, hybrid
// retrieval, reranking, and answer generation.
type Client struct {
	config    *config.Config
	embedder  embedder.Client
	graph     graph.Service
	chat      llm.Client
	extractor extract.Extractor
	retriever *retriever.Retriever
	reranker  *rerank.Reranker
	generator *generation.Generator
	pipeline  *ingest.Pipeline
	log       *slog.Logger
}

// NewClient builds a Client from already-constructed collaborators. Tests and
// embedders of the library inject fakes or alternative providers here; Open
// is the production path.
func NewClient(emb embedder.Client, svc graph.Service, chat llm.Client, cfg *config.Config, log *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	if emb == nil {
		return nil, errors.New("embedder client must not be nil")
	}
	if svc == nil {
		return nil, errors.New("graph service must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	extractor := extract.NewLLMExtractor(chat)

	return &Client{
		config:    cfg,
		embedder:  emb,
		graph:     svc,
		chat:      chat,
		extractor: extractor,
		retriever: retriever.New(cfg.Retrieval, emb, svc, log),
		reranker:  rerank.New(cfg.Retrieval, svc, log),
		generator: generation.New(cfg.Generation, chat, log),
		pipeline:  ingest.New(cfg.Ingestion, extractor, log),
		log:       log,
	}, nil
}

// Open constructs a Client with production collaborators from configuration:
// an OpenAI-compatible embedder (optionally cached on disk), a Neo4j graph
// service (optionally behind a circuit breaker), and an OpenAI-compatible
// chat client.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config must not be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	var emb embedder.Client = embedder.NewOpenAIEmbedder(cfg.Embedding.APIKey, embedder.Config{
		Model:   cfg.Embedding.Model,
		BaseURL: cfg.Embedding.BaseURL,
	})
	if cfg.Embedding.CacheDir != "" {
		cached, err := embedder.NewCachedClient(emb, cfg.Embedding.Model, cfg.Embedding.CacheDir)
		if err != nil {
			return nil, fmt.Errorf("failed to open embedding cache: %w", err)
		}
		emb = cached
	}

	svc, err := graph.NewNeo4jService(cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password, cfg.Graph.Database)
	if err != nil {
		emb.Close()
		return nil, fmt.Errorf("failed to connect to graph database: %w", err)
	}
	var graphService graph.Service = svc
	if cfg.CircuitBreaker.Enabled {
		graphService = graph.NewBreakerService(graphService, cfg.CircuitBreaker, log)
	}

	chat := llm.NewOpenAIClient(cfg.Generation.APIKey, llm.Config{
		Model:       cfg.Generation.Model,
		BaseURL:     cfg.Generation.BaseURL,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
	})

	return NewClient(emb, graphService, chat, cfg, log)
}

// Index embeds and indexes the given chunks. Re-indexing already known chunk
// IDs is a no-op.
func (c *Client) Index(ctx context.Context, chunks []types.Chunk) error {
	return c.retriever.Index(ctx, chunks)
}

// Count returns the number of indexed chunks.
func (c *Client) Count() int {
	return c.retriever.Count()
}

// IngestDocuments runs the full ingestion pipeline on the given file paths:
// load, chunk, extract entities, index the chunks, and upsert everything into
// the graph.
func (c *Client) IngestDocuments(ctx context.Context, paths []string) (*ingest.Result, error) {
	result, err := c.pipeline.Ingest(ctx, paths)
	if err != nil {
		return nil, err
	}

	if err := c.retriever.Index(ctx, result.Chunks); err != nil {
		return nil, fmt.Errorf("failed to index ingested chunks: %w", err)
	}

	if err := c.graph.Upsert(ctx, result.Chunks, result.Entities, result.Relations); err != nil {
		return nil, fmt.Errorf("failed to upsert knowledge graph: %w", err)
	}

	c.log.Info("ingestion complete",
		"chunks", len(result.Chunks),
		"entities", len(result.Entities),
		"relations", len(result.Relations))
	return result, nil
}

// Retrieve runs a hybrid query: entities extracted from the query seed the
// graph expansion while the query text drives semantic search. Extraction
// failures degrade to a purely semantic query rather than failing the call.
func (c *Client) Retrieve(ctx context.Context, query string) (*types.RetrievalResult, error) {
	seeds := c.querySeeds(ctx, query)
	return c.retriever.Retrieve(ctx, query, seeds)
}

// Rerank blends a retrieval result's merged ranking with graph centrality.
func (c *Client) Rerank(ctx context.Context, result *types.RetrievalResult) (*types.RerankedResult, error) {
	return c.reranker.Rerank(ctx, result)
}

// Query retrieves and reranks in one call.
func (c *Client) Query(ctx context.Context, query string) (*types.RerankedResult, error) {
	result, err := c.Retrieve(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.Rerank(ctx, result)
}

// Answer retrieves, reranks, and generates a grounded answer with citations.
func (c *Client) Answer(ctx context.Context, query string) (*generation.Result, error) {
	reranked, err := c.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.generator.Generate(ctx, query, reranked)
}

// querySeeds extracts entities from the query text and returns their IDs.
func (c *Client) querySeeds(ctx context.Context, query string) []string {
	entities, err := c.extractor.Extract(ctx, query)
	if err != nil {
		c.log.Warn("query entity extraction failed, continuing without graph seeds", "error", err)
		return nil
	}
	seeds := make([]string, 0, len(entities))
	for _, entity := range entities {
		seeds = append(seeds, entity.ID)
	}
	return seeds
}

// Close releases every underlying connection.
func (c *Client) Close(ctx context.Context) error {
	var errs []error
	if c.chat != nil {
		if err := c.chat.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing chat client: %w", err))
		}
	}
	if err := c.embedder.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing embedder: %w", err))
	}
	if err := c.graph.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("closing graph service: %w", err))
	}
	return errors.Join(errs...)
}
