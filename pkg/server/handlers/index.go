package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	graphrag "github.com/quarryhq/graphrag"
	"github.com/quarryhq/graphrag/pkg/retriever"
	"github.com/quarryhq/graphrag/pkg/server/dto"
)

// IndexHandler handles direct chunk indexing and document ingestion requests
type IndexHandler struct {
	indexer  graphrag.Indexer
	ingestor graphrag.Ingestor
}

// NewIndexHandler creates a new index handler
func NewIndexHandler(indexer graphrag.Indexer, ingestor graphrag.Ingestor) *IndexHandler {
	return &IndexHandler{indexer: indexer, ingestor: ingestor}
}

// IndexChunks handles POST /api/v1/index
func (h *IndexHandler) IndexChunks(c *gin.Context) {
	var req dto.IndexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	before := h.indexer.Count()
	if err := h.indexer.Index(c.Request.Context(), req.Chunks); err != nil {
		status := http.StatusInternalServerError
		var validation *retriever.ValidationError
		var mismatch *retriever.DimensionMismatchError
		// Bad embedding output is the provider's fault, not the caller's, but a
		// dimension mismatch means the request conflicts with the index state.
		if errors.As(err, &mismatch) || errors.As(err, &validation) {
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, dto.ErrorResponse{Error: "index_failed", Message: err.Error()})
		return
	}

	total := h.indexer.Count()
	c.JSON(http.StatusOK, dto.IndexResponse{Indexed: total - before, Total: total})
}

// IngestDocuments handles POST /api/v1/ingest
func (h *IndexHandler) IngestDocuments(c *gin.Context) {
	var req dto.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	result, err := h.ingestor.IngestDocuments(c.Request.Context(), req.Paths)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "ingest_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.IngestResponse{
		Chunks:    len(result.Chunks),
		Entities:  len(result.Entities),
		Relations: len(result.Relations),
	})
}
