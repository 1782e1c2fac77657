package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	graphrag "github.com/quarryhq/graphrag"
	"github.com/quarryhq/graphrag/pkg/server/dto"
)

// AnswerHandler handles grounded answer generation requests
type AnswerHandler struct {
	answerer graphrag.Answerer
}

// NewAnswerHandler creates a new answer handler
func NewAnswerHandler(answerer graphrag.Answerer) *AnswerHandler {
	return &AnswerHandler{answerer: answerer}
}

// Answer handles POST /api/v1/answer
func (h *AnswerHandler) Answer(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid_request", Message: err.Error()})
		return
	}

	result, err := h.answerer.Answer(c.Request.Context(), req.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "answer_failed", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.AnswerResponse{Answer: result.Answer, Citations: result.Citations})
}
