package dto

import (
	"errors"
	"strings"

	"github.com/quarryhq/graphrag/pkg/types"
)

// MaxQueryLength caps query text accepted over the API.
const MaxQueryLength = 8192

// ErrQueryTooLong is returned when a query exceeds MaxQueryLength.
var ErrQueryTooLong = errors.New("query exceeds maximum length")

// IndexRequest carries pre-chunked text to index directly, bypassing the
// document pipeline.
type IndexRequest struct {
	Chunks []types.Chunk `json:"chunks" binding:"required"`
}

// Validate performs validation on IndexRequest
func (r *IndexRequest) Validate() error {
	if len(r.Chunks) == 0 {
		return errors.New("chunks array is required and cannot be empty")
	}
	for i, chunk := range r.Chunks {
		if strings.TrimSpace(chunk.ID) == "" {
			return errors.New("every chunk needs a non-empty id")
		}
		if strings.TrimSpace(chunk.Text) == "" {
			return errors.New("chunk " + r.Chunks[i].ID + " has empty text")
		}
	}
	return nil
}

// IndexResponse reports the state of the index after an insert.
type IndexResponse struct {
	Indexed int `json:"indexed"`
	Total   int `json:"total"`
}

// IngestRequest names document files to run through the full pipeline.
type IngestRequest struct {
	Paths []string `json:"paths" binding:"required"`
}

// Validate performs validation on IngestRequest
func (r *IngestRequest) Validate() error {
	if len(r.Paths) == 0 {
		return errors.New("paths array is required and cannot be empty")
	}
	return nil
}

// IngestResponse summarizes one ingestion run.
type IngestResponse struct {
	Chunks    int `json:"chunks"`
	Entities  int `json:"entities"`
	Relations int `json:"relations"`
}

// QueryRequest is shared by the retrieve and answer endpoints.
type QueryRequest struct {
	Query string `json:"query" binding:"required"`
}

// Validate performs validation on QueryRequest
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return errors.New("query field is required and cannot be empty")
	}
	if len(r.Query) > MaxQueryLength {
		return ErrQueryTooLong
	}
	return nil
}

// RetrieveResponse exposes all three candidate lists of a hybrid query.
type RetrieveResponse struct {
	Semantic []types.RetrievedChunk `json:"semantic"`
	Graph    []types.RetrievedChunk `json:"graph"`
	Merged   []types.RetrievedChunk `json:"merged"`
}

// QueryResponse is the final reranked ranking.
type QueryResponse struct {
	Items []types.RetrievedChunk `json:"items"`
}

// AnswerResponse is a generated answer with its citations.
type AnswerResponse struct {
	Answer    string           `json:"answer"`
	Citations []types.Citation `json:"citations"`
}
