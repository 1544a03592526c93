package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/arenalabs/quizarena-backend/internal/middleware"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/arenalabs/quizarena-backend/internal/response"
	"github.com/arenalabs/quizarena-backend/internal/service"
	"github.com/arenalabs/quizarena-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionHandler handles test session lifecycle endpoints.
type SessionHandler struct {
	sessionService *service.SessionService
	gradingService *service.GradingService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService *service.SessionService, gradingService *service.GradingService) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		gradingService: gradingService,
	}
}

// StartSession godoc
// POST /api/v1/session/start
// Runs the eligibility gate and returns the active round's questions with
// canonical answers stripped.
func (h *SessionHandler) StartSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	payload, err := h.sessionService.StartSession(c.Request.Context(), claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrParticipantNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrParticipantInactive):
			response.Fail(c, http.StatusForbidden, response.ErrParticipantInactive)
		case errors.Is(err, service.ErrAlreadyInSession):
			response.Fail(c, http.StatusForbidden, response.ErrAlreadyInSession)
		case errors.Is(err, service.ErrNoActiveRound):
			response.Fail(c, http.StatusConflict, response.ErrNoActiveRound)
		case errors.Is(err, service.ErrNotEligible):
			response.Fail(c, http.StatusForbidden, response.ErrNotEligibleForRound)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"round": payload})
}

// SubmitSession godoc
// POST /api/v1/session/submit
// Grades the answer batch, records it atomically, and ends the session.
func (h *SessionHandler) SubmitSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.SubmitRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.gradingService.Submit(c.Request.Context(), claims.UserID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrRoundNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrRoundNotActive):
			response.Fail(c, http.StatusForbidden, response.ErrRoundNotActive)
		default:
			response.Fail(c, http.StatusServiceUnavailable, response.ErrTransient)
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// CurrentSession godoc
// GET /api/v1/session/current
// Lets a reconnecting client check whether a session is in progress.
func (h *SessionHandler) CurrentSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	session, err := h.sessionService.CurrentSession(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveSession) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// RoundSessions godoc
// GET /api/v1/admin/rounds/:id/sessions
// Session audit trail for a round, newest first.
func (h *SessionHandler) RoundSessions(c *gin.Context) {
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	sessions, err := h.sessionService.RoundSessions(c.Request.Context(), roundID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sessions": sessions})
}

// CancelSession godoc
// POST /api/v1/session/release
// Participant-initiated cancel (explicit abandon or page unload): clears
// the claim and closes the session without grading anything.
func (h *SessionHandler) CancelSession(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.sessionService.ReleaseSession(c.Request.Context(), claims.UserID); err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// ReleaseSession godoc
// POST /api/v1/admin/participants/:id/release-session
// Operator action: clears a stuck in_session flag without grading.
func (h *SessionHandler) ReleaseSession(c *gin.Context) {
	participantID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.sessionService.ReleaseSession(c.Request.Context(), participantID); err != nil {
		if errors.Is(err, service.ErrParticipantNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}
