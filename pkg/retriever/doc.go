// Package retriever implements the hybrid retrieval pipeline: an incremental
// in-memory vector index over chunk embeddings, inner-product semantic
// search, graph-neighborhood expansion from query entities, and the blend
// that reconciles both candidate lists into one ranking.
//
// The Retriever owns the chunk repository and the vector index as one unit
// behind a single read-write lock. Index is the only mutator and runs under
// the write lock for its whole dedup-validate-append sequence, so concurrent
// readers either see a batch fully or not at all. Retrieval operations take
// the read lock and may run concurrently.
//
// External collaborators stay behind narrow interfaces: the embedding
// provider (embedder.Client) and the graph database (graph.Service). A
// failing graph service degrades retrieval to semantic-only results; a
// failing embedding provider fails the query, because semantic search has no
// degraded mode.
package retriever
