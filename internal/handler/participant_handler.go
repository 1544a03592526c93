package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arenalabs/quizarena-backend/internal/response"
	"github.com/arenalabs/quizarena-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ParticipantHandler handles operator participant management endpoints.
type ParticipantHandler struct {
	participantService *service.ParticipantService
	sessionService     *service.SessionService
	authService        *service.AuthService
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(
	participantService *service.ParticipantService,
	sessionService *service.SessionService,
	authService *service.AuthService,
) *ParticipantHandler {
	return &ParticipantHandler{
		participantService: participantService,
		sessionService:     sessionService,
		authService:        authService,
	}
}

// ListParticipants godoc
// GET /api/v1/admin/participants
// Optional ?round=N filters by current round sequence.
func (h *ParticipantHandler) ListParticipants(c *gin.Context) {
	if roundStr := c.Query("round"); roundStr != "" {
		roundSeq, err := strconv.Atoi(roundStr)
		if err != nil {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}
		participants, err := h.participantService.ListByRound(c.Request.Context(), roundSeq)
		if err != nil {
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
			return
		}
		response.Success(c, http.StatusOK, gin.H{"participants": participants})
		return
	}

	participants, err := h.participantService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"participants": participants})
}

// GetParticipant godoc
// GET /api/v1/admin/participants/:id
func (h *ParticipantHandler) GetParticipant(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	participant, err := h.participantService.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"participant": participant})
}

// PromoteParticipant godoc
// POST /api/v1/admin/participants/:id/promote
func (h *ParticipantHandler) PromoteParticipant(c *gin.Context) {
	h.adjustRound(c, true)
}

// DepromoteParticipant godoc
// POST /api/v1/admin/participants/:id/depromote
func (h *ParticipantHandler) DepromoteParticipant(c *gin.Context) {
	h.adjustRound(c, false)
}

func (h *ParticipantHandler) adjustRound(c *gin.Context, promote bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var participant interface{}
	if promote {
		participant, err = h.participantService.Promote(c.Request.Context(), id)
	} else {
		participant, err = h.participantService.Depromote(c.Request.Context(), id)
	}
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParticipantNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAlreadyFirstRound):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyFirstRound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"participant": participant})
}

// ActivateParticipant godoc
// POST /api/v1/admin/participants/:id/activate
func (h *ParticipantHandler) ActivateParticipant(c *gin.Context) {
	h.setActive(c, true)
}

// DeactivateParticipant godoc
// POST /api/v1/admin/participants/:id/deactivate
func (h *ParticipantHandler) DeactivateParticipant(c *gin.Context) {
	h.setActive(c, false)
}

func (h *ParticipantHandler) setActive(c *gin.Context, active bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	participant, err := h.participantService.SetActive(c.Request.Context(), id, active)
	if err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"participant": participant})
}

// RemoveParticipant godoc
// DELETE /api/v1/admin/participants/:email
// Removes an account by email — an operator correction of a bad signup.
func (h *ParticipantHandler) RemoveParticipant(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	if err := h.participantService.Remove(c.Request.Context(), email); err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ResetLogin godoc
// POST /api/v1/admin/participants/:id/reset-login
// Clears the single-device login session so the participant can log in
// again from another device.
func (h *ParticipantHandler) ResetLogin(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if _, err := h.participantService.GetByID(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	if err := h.authService.ResetParticipantLogin(c.Request.Context(), id); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
