package handler

import (
	"errors"
	"net/http"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/arenalabs/quizarena-backend/internal/response"
	"github.com/arenalabs/quizarena-backend/internal/service"
	"github.com/arenalabs/quizarena-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RoundHandler handles round management endpoints.
type RoundHandler struct {
	roundService   *service.RoundService
	sessionService *service.SessionService
}

// NewRoundHandler creates a new RoundHandler.
func NewRoundHandler(roundService *service.RoundService, sessionService *service.SessionService) *RoundHandler {
	return &RoundHandler{roundService: roundService, sessionService: sessionService}
}

// ListRounds godoc
// GET /api/v1/admin/rounds
func (h *RoundHandler) ListRounds(c *gin.Context) {
	rounds, err := h.roundService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"rounds": rounds})
}

// CreateRound godoc
// POST /api/v1/admin/rounds
func (h *RoundHandler) CreateRound(c *gin.Context) {
	var req model.CreateRoundRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	round, err := h.roundService.Create(c.Request.Context(), &req)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"round": round})
}

// ActivateRound godoc
// POST /api/v1/admin/rounds/:id/activate
// Makes this round the single active one and warms its payload cache.
func (h *RoundHandler) ActivateRound(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	round, err := h.roundService.Activate(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if err := h.sessionService.PrewarmActiveRound(c.Request.Context()); err != nil {
		// Cache warming is opportunistic; session start falls back to the
		// database on a cold cache.
		_ = err
	}

	response.Success(c, http.StatusOK, gin.H{"round": round})
}

// DeactivateRound godoc
// POST /api/v1/admin/rounds/:id/deactivate
func (h *RoundHandler) DeactivateRound(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	round, err := h.roundService.Deactivate(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"round": round})
}

// UpdateTimeLimit godoc
// PATCH /api/v1/admin/rounds/:id/time-limit
func (h *RoundHandler) UpdateTimeLimit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateTimeLimitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	round, err := h.roundService.UpdateTimeLimit(c.Request.Context(), id, req.TimeLimitMinutes)
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"round": round})
}

// DeleteRound godoc
// DELETE /api/v1/admin/rounds/:id
// Refused while active or once sessions/submissions reference the round.
func (h *RoundHandler) DeleteRound(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.roundService.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrRoundNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrRoundActive):
			response.Fail(c, http.StatusConflict, response.ErrRoundIsActive)
		case errors.Is(err, service.ErrRoundHasHistory):
			response.Fail(c, http.StatusConflict, response.ErrRoundHasHistory)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
