// Package graph defines the narrow contract between the retrieval core and
// the knowledge graph database, plus a Neo4j implementation of it.
//
// The retrieval core only needs three capabilities from the graph side:
// hop-bounded neighbor expansion from seed nodes, degree centrality for a set
// of node IDs, and the ingestion-time upsert of chunks, entities, and
// relations. Storage, Cypher execution, and graph algorithms stay behind the
// Service interface so tests can substitute deterministic fakes.
//
// BreakerService wraps any Service with a circuit breaker so a dead graph
// database fails queries fast instead of stalling every retrieval.
package graph
