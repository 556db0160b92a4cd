package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skilltracker/skilltracker-backend/internal/response"
	"github.com/skilltracker/skilltracker-backend/internal/service"
)

// ContestHandler serves the public contest schedule.
type ContestHandler struct {
	contestService *service.ContestService
}

// NewContestHandler creates a new ContestHandler.
func NewContestHandler(contestService *service.ContestService) *ContestHandler {
	return &ContestHandler{contestService: contestService}
}

// List godoc
// GET /api/v1/contests
// Lists contests ordered by start time.
func (h *ContestHandler) List(c *gin.Context) {
	contests, err := h.contestService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, contests)
}

// Get godoc
// GET /api/v1/contests/:id
// Returns one contest.
func (h *ContestHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	contest, err := h.contestService.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if contest == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, contest)
}
