package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	graphrag "github.com/quarryhq/graphrag"
	"github.com/quarryhq/graphrag/pkg/server/dto"
)

// RetrieveHandler handles hybrid retrieval requests
type RetrieveHandler struct {
	querier graphrag.Querier
}

// NewRetrieveHandler creates a new retrieve handler
func NewRetrieveHandler(querier graphrag.Querier) *RetrieveHandler {
	return &RetrieveHandler{querier: querier}
}

// Retrieve handles POST /api/v1/retrieve and returns the raw hybrid
// candidate lists before reranking.
func (h *RetrieveHandler) Retrieve(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	result, err := h.querier.Retrieve(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "retrieval_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.RetrieveResponse{
		Semantic: result.Semantic,
		Graph:    result.Graph,
		Merged:   result.Merged,
	})
}

// Query handles POST /api/v1/query and returns the reranked ranking.
func (h *RetrieveHandler) Query(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	result, err := h.querier.Query(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "query_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.QueryResponse{Items: result.Items})
}
