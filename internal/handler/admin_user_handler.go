package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/skilltracker/skilltracker-backend/internal/middleware"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/response"
	"github.com/skilltracker/skilltracker-backend/internal/service"
	"github.com/skilltracker/skilltracker-backend/internal/validator"
)

// AdminUserHandler manages user accounts from the admin panel.
type AdminUserHandler struct {
	userService *service.UserService
}

// NewAdminUserHandler creates a new AdminUserHandler.
func NewAdminUserHandler(userService *service.UserService) *AdminUserHandler {
	return &AdminUserHandler{userService: userService}
}

// List godoc
// GET /api/v1/admin/users?page=1&per_page=10&search=
// Lists accounts with pagination and name/email search.
func (h *AdminUserHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	users, pagination, err := h.userService.List(c.Request.Context(), page, perPage, c.Query("search"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, users, pagination)
}

// UpdateRole godoc
// PUT /api/v1/admin/users/:id/role
// Promotes or demotes an account. Admins cannot demote themselves.
func (h *AdminUserHandler) UpdateRole(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateRoleRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	if claims != nil && claims.UserID == id && req.Role != model.RoleAdmin {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	if err := h.userService.UpdateRole(c.Request.Context(), id, req.Role); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Delete godoc
// DELETE /api/v1/admin/users/:id
// Removes an account and everything it owns.
func (h *AdminUserHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	claims := middleware.GetClaims(c)
	if claims != nil && claims.UserID == id {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Results godoc
// GET /api/v1/admin/results?page=1&per_page=10&kind=&language=
// Lists recent results across all users for review.
func (h *AdminUserHandler) Results(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	rows, pagination, err := h.userService.ResultsForReview(
		c.Request.Context(), page, perPage, c.Query("kind"), c.Query("language"),
	)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, rows, pagination)
}
