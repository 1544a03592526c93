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

// ValidationHandler handles manual-review endpoints for free-text submissions.
type ValidationHandler struct {
	validationService *service.ValidationService
}

// NewValidationHandler creates a new ValidationHandler.
func NewValidationHandler(validationService *service.ValidationService) *ValidationHandler {
	return &ValidationHandler{validationService: validationService}
}

// ListPending godoc
// GET /api/v1/admin/submissions/pending
func (h *ValidationHandler) ListPending(c *gin.Context) {
	pending, err := h.validationService.ListPending(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"submissions": pending})
}

// ValidateSubmission godoc
// POST /api/v1/admin/submissions/:id/validate
// Resolves one pending submission; a second verdict is rejected.
func (h *ValidationHandler) ValidateSubmission(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.ValidateSubmissionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.validationService.Validate(c.Request.Context(), id, *req.Correct); err != nil {
		switch {
		case errors.Is(err, service.ErrSubmissionNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrAlreadyValidated):
			response.Fail(c, http.StatusConflict, response.ErrAlreadyValidated)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ValidationStats godoc
// GET /api/v1/admin/submissions/stats
func (h *ValidationHandler) ValidationStats(c *gin.Context) {
	stats, err := h.validationService.Stats(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"stats": stats})
}
