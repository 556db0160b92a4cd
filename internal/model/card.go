package model

import "time"

// Card is the admin-configured sizing of an assessment for one language:
// how many questions are drawn and how long the countdown runs.
type Card struct {
	ID              int            `json:"id"`
	Language        string         `json:"language"`
	Kind            AssessmentKind `json:"kind"`
	QuestionCount   int            `json:"question_count"`
	DurationMinutes int            `json:"duration_minutes"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// CreateCardRequest is the admin payload for configuring a card.
type CreateCardRequest struct {
	Language        string `json:"language" binding:"required,min=1,max=50"`
	Kind            string `json:"kind" binding:"required,oneof=quiz mock"`
	QuestionCount   int    `json:"question_count" binding:"required,min=1,max=100"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=180"`
}

// UpdateCardRequest is the admin payload for resizing a card.
type UpdateCardRequest struct {
	QuestionCount   int `json:"question_count" binding:"required,min=1,max=100"`
	DurationMinutes int `json:"duration_minutes" binding:"required,min=1,max=180"`
}
