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
)

// AdminHandler handles operator account management endpoints.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListAdmins godoc
// GET /api/v1/admin/admins
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.adminService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"admins": admins})
}

// CreateAdmin godoc
// POST /api/v1/admin/admins
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req model.CreateAdminRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	admin, err := h.adminService.Create(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailRegistered) {
			response.Fail(c, http.StatusConflict, response.ErrEmailRegistered)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"admin": admin})
}

// DeleteAdmin godoc
// DELETE /api/v1/admin/admins/:id
// An admin cannot delete their own account.
func (h *AdminHandler) DeleteAdmin(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	claims := middleware.GetClaims(c)
	if claims != nil && claims.UserID == id {
		response.Fail(c, http.StatusConflict, response.ErrActionForbidden)
		return
	}

	if err := h.adminService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrAdminNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
