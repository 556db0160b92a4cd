package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skilltracker/skilltracker-backend/internal/middleware"
	"github.com/skilltracker/skilltracker-backend/internal/response"
	"github.com/skilltracker/skilltracker-backend/internal/service"
)

// PlanHandler serves AI study plans and roadmaps.
type PlanHandler struct {
	planService *service.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(planService *service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// StudyPlan godoc
// GET /api/v1/study-plan/:language
// Returns the caller's study plan for a language, regenerating when stale.
func (h *PlanHandler) StudyPlan(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	language := c.Param("language")
	if language == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	plan, err := h.planService.StudyPlan(c.Request.Context(), claims.UserID, language)
	if err != nil {
		h.failPlanOp(c, err)
		return
	}
	response.Success(c, http.StatusOK, plan)
}

// Roadmap godoc
// GET /api/v1/roadmap/:language
// Returns the caller's learning roadmap for a language.
func (h *PlanHandler) Roadmap(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	language := c.Param("language")
	if language == "" {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	roadmap, err := h.planService.Roadmap(c.Request.Context(), claims.UserID, language)
	if err != nil {
		h.failPlanOp(c, err)
		return
	}
	response.Success(c, http.StatusOK, roadmap)
}

// ListStudyPlans godoc
// GET /api/v1/study-plan
// Lists every stored study plan for the caller.
func (h *PlanHandler) ListStudyPlans(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	plans, err := h.planService.ListStudyPlans(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, plans)
}

// ListRoadmaps godoc
// GET /api/v1/roadmap
// Lists every stored roadmap for the caller.
func (h *PlanHandler) ListRoadmaps(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	roadmaps, err := h.planService.ListRoadmaps(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, roadmaps)
}

func (h *PlanHandler) failPlanOp(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNoQuizHistory):
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, service.ErrAIUnavailable):
		response.Fail(c, http.StatusServiceUnavailable, response.ErrAIUnavailable)
	case errors.Is(err, service.ErrAIGeneration):
		response.Fail(c, http.StatusBadGateway, response.ErrAIGeneration)
	default:
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
	}
}
