package types

// Chunk is a fixed-size slice of source document text. Chunks are immutable
// once created: ingestion assigns the ID and the retrieval core treats the
// content as read-only.
type Chunk struct {
	ID             string `json:"id"`
	Text           string `json:"text"`
	SourceDocument string `json:"source_document"`
}

// Entity is a named entity extracted from chunk text.
type Entity struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Relation is a scored, typed edge between two graph nodes. Head and Tail
// may reference chunks, documents, or entities depending on the relation
// type.
type Relation struct {
	Head  string  `json:"head"`
	Tail  string  `json:"tail"`
	Type  string  `json:"type"`
	Score float64 `json:"score"`
}

// Relation types written during ingestion.
const (
	RelationPartOf   = "part_of"   // chunk -> source document
	RelationMentions = "mentions"  // entity -> chunk
	RelationCoOccurs = "co_occurs" // entity <-> entity within one chunk
)

// RetrievedChunk pairs a chunk with a relevance score. Semantic scores are
// inner products and not bounded to [0,1]; graph expansion hits carry a flat
// 1.0. Once merged, scores live on a single ordering scale.
type RetrievedChunk struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// RetrievalResult holds the two candidate lists of a hybrid query and their
// merged, deduplicated reconciliation. Semantic and Merged are ordered by
// descending score; Graph preserves the order returned by the graph service.
type RetrievalResult struct {
	Semantic []RetrievedChunk `json:"semantic"`
	Graph    []RetrievedChunk `json:"graph"`
	Merged   []RetrievedChunk `json:"merged"`
}

// RerankedResult is the final ordering after the centrality blend, descending
// by blended score.
type RerankedResult struct {
	Items []RetrievedChunk `json:"items"`
}

// CentralityScore is a graph-service-computed connectedness score for a
// single node, used as a relevance prior during reranking.
type CentralityScore struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Citation points an answer back at a chunk it was grounded on.
type Citation struct {
	ChunkID        string  `json:"chunk_id"`
	SourceDocument string  `json:"source_document"`
	Score          float64 `json:"score"`
}
