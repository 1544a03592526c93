package handler

import (
	"errors"
	"net/http"

	"github.com/arenalabs/quizarena-backend/internal/response"
	"github.com/arenalabs/quizarena-backend/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ResultHandler handles round leaderboard endpoints.
type ResultHandler struct {
	resultService *service.ResultService
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(resultService *service.ResultService) *ResultHandler {
	return &ResultHandler{resultService: resultService}
}

// RoundResults godoc
// GET /api/v1/admin/rounds/:id/results
// Returns the weighted leaderboard for one round.
func (h *ResultHandler) RoundResults(c *gin.Context) {
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	results, err := h.resultService.RoundResults(c.Request.Context(), roundID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoundNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrWeightNotConfigured):
			response.Fail(c, http.StatusConflict, response.ErrWeightNotConfigured)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}
