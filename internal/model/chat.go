package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatSender distinguishes user messages from bot replies in a transcript.
type ChatSender string

const (
	SenderUser ChatSender = "user"
	SenderBot  ChatSender = "bot"
)

// ChatMessage is one entry in a user's chatbot transcript.
type ChatMessage struct {
	ID        uuid.UUID  `json:"id"`
	UserID    int        `json:"user_id"`
	Sender    ChatSender `json:"sender"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
}

// ChatRequest is the payload for sending a message to the bot.
type ChatRequest struct {
	Message string `json:"message" binding:"required,min=1,max=4000"`
}
