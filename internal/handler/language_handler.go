package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/response"
	"github.com/skilltracker/skilltracker-backend/internal/service"
)

// LanguageHandler serves the public language catalog.
type LanguageHandler struct {
	languageService *service.LanguageService
	cardService     *service.CardService
}

// NewLanguageHandler creates a new LanguageHandler.
func NewLanguageHandler(languageService *service.LanguageService, cardService *service.CardService) *LanguageHandler {
	return &LanguageHandler{languageService: languageService, cardService: cardService}
}

// List godoc
// GET /api/v1/languages
// Lists the supported languages.
func (h *LanguageHandler) List(c *gin.Context) {
	languages, err := h.languageService.List(c.Request.Context())
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, languages)
}

// Cards godoc
// GET /api/v1/cards?kind=quiz|mock
// Lists the assessment cards, optionally filtered by kind.
func (h *LanguageHandler) Cards(c *gin.Context) {
	cards, err := h.cardService.List(c.Request.Context(), c.Query("kind"))
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if cards == nil {
		cards = []model.Card{}
	}
	response.Success(c, http.StatusOK, cards)
}
