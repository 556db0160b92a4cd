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

// AdminContentHandler manages languages, cards, notifications, and contests
// from the admin panel.
type AdminContentHandler struct {
	languageService     *service.LanguageService
	cardService         *service.CardService
	notificationService *service.NotificationService
	contestService      *service.ContestService
}

// NewAdminContentHandler creates a new AdminContentHandler.
func NewAdminContentHandler(
	languageService *service.LanguageService,
	cardService *service.CardService,
	notificationService *service.NotificationService,
	contestService *service.ContestService,
) *AdminContentHandler {
	return &AdminContentHandler{
		languageService:     languageService,
		cardService:         cardService,
		notificationService: notificationService,
		contestService:      contestService,
	}
}

// ─── Languages ──────────────────────────────────────────────────────

// CreateLanguage godoc
// POST /api/v1/admin/languages
func (h *AdminContentHandler) CreateLanguage(c *gin.Context) {
	var req model.CreateLanguageRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	language := &model.Language{Name: req.Name}
	if err := h.languageService.Create(c.Request.Context(), language); err != nil {
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	}
	response.Success(c, http.StatusCreated, language)
}

// DeleteLanguage godoc
// DELETE /api/v1/admin/languages/:id
func (h *AdminContentHandler) DeleteLanguage(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.languageService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ─── Cards ──────────────────────────────────────────────────────────

// CreateCard godoc
// POST /api/v1/admin/cards
func (h *AdminContentHandler) CreateCard(c *gin.Context) {
	var req model.CreateCardRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	language, err := h.languageService.Get(c.Request.Context(), req.Language)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if language == nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
			map[string]string{"language": "unknown language"})
		return
	}

	card := &model.Card{
		Language:        req.Language,
		Kind:            model.AssessmentKind(req.Kind),
		QuestionCount:   req.QuestionCount,
		DurationMinutes: req.DurationMinutes,
	}
	if err := h.cardService.Create(c.Request.Context(), card); err != nil {
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	}
	response.Success(c, http.StatusCreated, card)
}

// UpdateCard godoc
// PUT /api/v1/admin/cards/:id
func (h *AdminContentHandler) UpdateCard(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateCardRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.cardService.Update(c.Request.Context(), id, req.QuestionCount, req.DurationMinutes); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// DeleteCard godoc
// DELETE /api/v1/admin/cards/:id
func (h *AdminContentHandler) DeleteCard(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.cardService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// ─── Notifications ──────────────────────────────────────────────────

// Broadcast godoc
// POST /api/v1/admin/notifications
// Stores an announcement and queues its delivery to every user.
func (h *AdminContentHandler) Broadcast(c *gin.Context) {
	var req model.CreateNotificationRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	notification, err := h.notificationService.Broadcast(c.Request.Context(), req.Message)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, notification)
}

// ─── Contests ───────────────────────────────────────────────────────

// CreateContest godoc
// POST /api/v1/admin/contests
func (h *AdminContentHandler) CreateContest(c *gin.Context) {
	var req model.CreateContestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	contest := &model.Contest{
		Title:    req.Title,
		Language: req.Language,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}
	if err := h.contestService.Create(c.Request.Context(), contest); err != nil {
		if errors.Is(err, service.ErrContestWindow) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"ends_at": "must be after starts_at"})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusCreated, contest)
}

// UpdateContest godoc
// PUT /api/v1/admin/contests/:id
func (h *AdminContentHandler) UpdateContest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	var req model.UpdateContestRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	contest, err := h.contestService.Update(c.Request.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrContestWindow) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"ends_at": "must be after starts_at"})
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if contest == nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, contest)
}

// DeleteContest godoc
// DELETE /api/v1/admin/contests/:id
func (h *AdminContentHandler) DeleteContest(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	if err := h.contestService.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
