// Package graphrag provides graph-augmented retrieval for Go.
//
// The library combines two retrieval signals over one corpus: dense vector
// similarity against an in-memory chunk index, and neighborhood expansion in
// a knowledge graph built from the same documents. Candidates from both paths
// are merged, reranked with a graph centrality prior, and optionally handed
// to a chat model for grounded answer generation.
//
// # Basic Usage
//
// Open a client from configuration and ingest documents:
//
//	cfg, err := config.Load()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := graphrag.Open(ctx, cfg, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close(ctx)
//
//	_, err = client.IngestDocuments(ctx, []string{"notes.md", "report.txt"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Querying
//
// Retrieve returns the raw hybrid candidate lists; Query adds reranking;
// Answer adds generation:
//
//	answer, err := client.Answer(ctx, "who founded the company?")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(answer.Answer)
//	for _, c := range answer.Citations {
//		fmt.Printf("  source: %s (%.3f)\n", c.ChunkID, c.Score)
//	}
//
// # Graph Model
//
// Ingestion writes three node kinds to the graph:
//
//   - Document: one per source file
//   - Chunk: a fixed-size word window of a document
//   - Entity: a named entity extracted from chunk text
//
// connected by three relation types:
//
//   - part_of: chunk -> document
//   - mentions: entity -> chunk
//   - co_occurs: entity <-> entity appearing in the same chunk
//
// # Failure Semantics
//
// The graph side of a query is best-effort: if expansion or the centrality
// lookup fails, the query degrades to its semantic results. An embedding
// failure fails the query, since without a query vector there is nothing to
// rank.
//
// # Architecture
//
//   - pkg/retriever: vector index, hybrid retrieval, merge
//   - pkg/rerank: centrality-blended reranking
//   - pkg/graph: Neo4j service and circuit breaker
//   - pkg/embedder: embedding clients and on-disk cache
//   - pkg/ingest: document loading, chunking, relation building
//   - pkg/extract: LLM entity extraction
//   - pkg/generation: grounded answer generation
//   - pkg/server: HTTP API
//
// Collaborators are injected as interfaces, so any OpenAI-compatible
// embedding or chat endpoint and any graph.Service implementation can be
// substituted.
package graphrag
