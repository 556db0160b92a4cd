package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
)

// chatContextWindow bounds how much transcript is replayed into the prompt.
const chatContextWindow = 20

// ChatService runs the tutoring chatbot over persisted transcripts.
type ChatService struct {
	chatRepo *repository.ChatRepository
	gemini   *GeminiService
	log      zerolog.Logger
}

// NewChatService creates a new ChatService.
func NewChatService(chatRepo *repository.ChatRepository, gemini *GeminiService, log zerolog.Logger) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		gemini:   gemini,
		log:      log.With().Str("component", "chat_service").Logger(),
	}
}

// Send records the user's message, asks the bot for a reply with recent
// transcript as context, records the reply, and returns it. The user message
// is persisted even when the bot fails, so the transcript stays honest.
func (s *ChatService) Send(ctx context.Context, userID int, message string) (*model.ChatMessage, error) {
	history, err := s.chatRepo.ListByUser(ctx, userID, chatContextWindow)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	userMsg := &model.ChatMessage{UserID: userID, Sender: model.SenderUser, Content: message}
	if err := s.chatRepo.Insert(ctx, userMsg); err != nil {
		return nil, fmt.Errorf("store message: %w", err)
	}

	reply, err := s.gemini.Chat(ctx, history, message)
	if err != nil {
		return nil, err
	}

	botMsg := &model.ChatMessage{UserID: userID, Sender: model.SenderBot, Content: reply}
	if err := s.chatRepo.Insert(ctx, botMsg); err != nil {
		return nil, fmt.Errorf("store reply: %w", err)
	}
	return botMsg, nil
}

// History retrieves a user's transcript in chronological order.
func (s *ChatService) History(ctx context.Context, userID, limit int) ([]model.ChatMessage, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	messages, err := s.chatRepo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []model.ChatMessage{}
	}
	return messages, nil
}
