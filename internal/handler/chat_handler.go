package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skilltracker/skilltracker-backend/internal/middleware"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/response"
	"github.com/skilltracker/skilltracker-backend/internal/service"
	"github.com/skilltracker/skilltracker-backend/internal/validator"
)

// ChatHandler exposes the tutoring chatbot over REST.
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Send godoc
// POST /api/v1/chat
// Sends one message to the bot and returns its reply.
func (h *ChatHandler) Send(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	var req model.ChatRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	reply, err := h.chatService.Send(c.Request.Context(), claims.UserID, req.Message)
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
	response.Success(c, http.StatusOK, reply)
}

// History godoc
// GET /api/v1/chat?limit=50
// Returns the caller's transcript in chronological order.
func (h *ChatHandler) History(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	messages, err := h.chatService.History(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, messages)
}
