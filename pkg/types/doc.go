// Package types defines the shared data model for the retrieval pipeline.
//
// The central unit is the Chunk, a slice of source-document text that is both
// the unit of retrieval and the unit of citation. Retrieval stages exchange
// chunks wrapped in RetrievedChunk values carrying a relevance score, grouped
// into RetrievalResult (per-signal candidate lists plus the merged list) and
// RerankedResult (the final ordering handed to generation).
//
// Entities and Relations describe the knowledge graph built during ingestion;
// they are written through the graph service and never mutated by retrieval.
package types
