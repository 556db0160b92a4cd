package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/response"
	"github.com/skilltracker/skilltracker-backend/internal/service"
	"github.com/skilltracker/skilltracker-backend/internal/validator"
)

// AdminQuestionHandler manages the question pools from the admin panel.
type AdminQuestionHandler struct {
	questionService *service.QuestionService
}

// NewAdminQuestionHandler creates a new AdminQuestionHandler.
func NewAdminQuestionHandler(questionService *service.QuestionService) *AdminQuestionHandler {
	return &AdminQuestionHandler{questionService: questionService}
}

// List godoc
// GET /api/v1/admin/questions?page=1&per_page=10&kind=&language=
func (h *AdminQuestionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	questions, pagination, err := h.questionService.List(
		c.Request.Context(), page, perPage, c.Query("kind"), c.Query("language"),
	)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.SuccessWithPagination(c, http.StatusOK, questions, pagination)
}

// Get godoc
// GET /api/v1/admin/questions/:id
func (h *AdminQuestionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	question, err := h.questionService.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if question == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, question)
}

// Create godoc
// POST /api/v1/admin/questions
func (h *AdminQuestionHandler) Create(c *gin.Context) {
	var req model.CreateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if !containsString(req.Options, req.CorrectAnswer) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"correctAnswer": "must match one of the options"})
		return
	}

	question := &model.Question{
		Language:      req.Language,
		Kind:          model.AssessmentKind(req.Kind),
		QuestionText:  req.QuestionText,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Difficulty:    model.Difficulty(req.Difficulty),
	}
	if err := h.questionService.Create(c.Request.Context(), question); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, question)
}

// Update godoc
// PUT /api/v1/admin/questions/:id
func (h *AdminQuestionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateQuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	question, err := h.questionService.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if question == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	if req.QuestionText != "" {
		question.QuestionText = req.QuestionText
	}
	if req.Options != nil {
		question.Options = req.Options
	}
	if req.CorrectAnswer != "" {
		question.CorrectAnswer = req.CorrectAnswer
	}
	if req.Difficulty != "" {
		question.Difficulty = model.Difficulty(req.Difficulty)
	}
	if !containsString(question.Options, question.CorrectAnswer) {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"correctAnswer": "must match one of the options"})
		return
	}

	if err := h.questionService.Update(c.Request.Context(), question); err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, question)
}

// Delete godoc
// DELETE /api/v1/admin/questions/:id
func (h *AdminQuestionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.questionService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Generate godoc
// POST /api/v1/admin/questions/generate
// Generates questions with Gemini and stores them in the pool.
func (h *AdminQuestionHandler) Generate(c *gin.Context) {
	var req model.GenerateQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions, err := h.questionService.Generate(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAIUnavailable):
			response.Fail(c, http.StatusServiceUnavailable, response.ErrAIUnavailable)
		case errors.Is(err, service.ErrAIGeneration):
			response.Fail(c, http.StatusBadGateway, response.ErrAIGeneration)
		default:
			response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		}
		return
	}
	response.Success(c, http.StatusCreated, questions)
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
