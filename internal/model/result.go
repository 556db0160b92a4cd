package model

import (
	"time"

	"github.com/google/uuid"
)

// PlayedQuestion records one question shown during a quiz together with the
// option the user selected. Retained only for the quiz variant, to drive
// study-plan/roadmap generation and admin review.
type PlayedQuestion struct {
	QuestionText  string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Selected      string   `json:"selected"` // empty if unanswered
}

// Result is one persisted assessment submission.
type Result struct {
	ID              uuid.UUID        `json:"id"`
	UserID          int              `json:"user_id"`
	Kind            AssessmentKind   `json:"kind"`
	Language        string           `json:"language"`
	CorrectCount    int              `json:"correct"`
	TotalCount      int              `json:"total"`
	PlayedQuestions []PlayedQuestion `json:"played_questions,omitempty"`
	PlayedAt        time.Time        `json:"played_at"`
}

// SaveResultRequest is the client-scored result sink payload.
type SaveResultRequest struct {
	Language        string           `json:"language" binding:"required,min=1,max=50"`
	Kind            string           `json:"kind" binding:"required,oneof=quiz mock"`
	Correct         int              `json:"correct" binding:"min=0"`
	Total           int              `json:"total" binding:"required,min=1"`
	PlayedQuestions []PlayedQuestion `json:"playedQuestions" binding:"omitempty,dive"`
}

// MockStatus reports whether the mock test for a language is locked for a user.
type MockStatus struct {
	Disable bool       `json:"disable"`
	Date    *time.Time `json:"date"`
}

// MockCompletion is a per-user, per-language perfect-score completion record.
type MockCompletion struct {
	UserID      int       `json:"user_id"`
	Language    string    `json:"language"`
	CompletedAt time.Time `json:"completed_at"`
}
