package handler

import (
	"errors"
	"net/http"

	"github.com/arenalabs/quizarena-backend/internal/middleware"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/arenalabs/quizarena-backend/internal/response"
	"github.com/arenalabs/quizarena-backend/internal/service"
	"github.com/arenalabs/quizarena-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService        *service.AuthService
	participantService *service.ParticipantService
	adminService       *service.AdminService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authService *service.AuthService,
	participantService *service.ParticipantService,
	adminService *service.AdminService,
) *AuthHandler {
	return &AuthHandler{
		authService:        authService,
		participantService: participantService,
		adminService:       adminService,
	}
}

// RegisterParticipant godoc
// POST /api/v1/auth/participant/register
// Creates a participant account. New accounts start inactive until an
// operator activates them.
func (h *AuthHandler) RegisterParticipant(c *gin.Context) {
	var req model.RegisterParticipantRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	participant, err := h.participantService.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailRegistered) {
			response.Fail(c, http.StatusConflict, response.ErrEmailRegistered)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"participant": participant})
}

// ParticipantLogin godoc
// POST /api/v1/auth/participant/login
// Validates email + password, rejects if another login session is active,
// returns JWT.
func (h *AuthHandler) ParticipantLogin(c *gin.Context) {
	var req model.ParticipantLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	participant, err := h.participantService.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(participant.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateParticipantToken(c.Request.Context(), participant.ID)
	if err != nil {
		if errors.Is(err, service.ErrSessionAlreadyActive) {
			response.Fail(c, http.StatusConflict, response.ErrSessionActive)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token":       token,
		"participant": participant,
	})
}

// GetParticipantProfile godoc
// GET /api/v1/auth/participant/me
func (h *AuthHandler) GetParticipantProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	participant, err := h.participantService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"participant": participant})
}

// ParticipantLogout godoc
// POST /api/v1/auth/participant/logout
func (h *AuthHandler) ParticipantLogout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if err := h.authService.ResetParticipantLogin(c.Request.Context(), claims.UserID); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{})
}

// AdminLogin godoc
// POST /api/v1/auth/admin/login
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req model.AdminLoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.adminService.GetByEmail(c.Request.Context(), req.Email)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	if err := h.authService.CheckPassword(admin.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateAdminToken(admin.ID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"token": token,
		"admin": admin,
	})
}

// GetAdminProfile godoc
// GET /api/v1/auth/admin/me
func (h *AuthHandler) GetAdminProfile(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	admin, err := h.adminService.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"admin": admin})
}
