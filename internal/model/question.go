package model

import (
	"time"

	"github.com/google/uuid"
)

// AssessmentKind separates the quiz pool from the mock-test pool.
type AssessmentKind string

const (
	KindQuiz AssessmentKind = "quiz"
	KindMock AssessmentKind = "mock"
)

// Valid reports whether k is a known assessment kind.
func (k AssessmentKind) Valid() bool {
	return k == KindQuiz || k == KindMock
}

// Difficulty tags a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Question represents a single multiple-choice question in a language pool.
// QuestionText may embed a code snippet.
type Question struct {
	ID            uuid.UUID      `json:"id"`
	Language      string         `json:"language"`
	Kind          AssessmentKind `json:"kind"`
	QuestionText  string         `json:"question"`
	Options       []string       `json:"options"`
	CorrectAnswer string         `json:"correctAnswer"`
	Difficulty    Difficulty     `json:"difficulty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// CreateQuestionRequest is the admin payload for adding a question to a pool.
type CreateQuestionRequest struct {
	Language      string   `json:"language" binding:"required,min=1,max=50"`
	Kind          string   `json:"kind" binding:"required,oneof=quiz mock"`
	QuestionText  string   `json:"question" binding:"required,min=1,max=4000"`
	Options       []string `json:"options" binding:"required,min=2,max=8,dive,required,max=500"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required,max=500"`
	Difficulty    string   `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
}

// UpdateQuestionRequest is the admin payload for editing a question.
type UpdateQuestionRequest struct {
	QuestionText  string   `json:"question" binding:"omitempty,min=1,max=4000"`
	Options       []string `json:"options" binding:"omitempty,min=2,max=8,dive,required,max=500"`
	CorrectAnswer string   `json:"correctAnswer" binding:"omitempty,max=500"`
	Difficulty    string   `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard"`
}

// GenerateQuestionsRequest is the admin payload for AI question generation.
type GenerateQuestionsRequest struct {
	Language   string `json:"language" binding:"required,min=1,max=50"`
	Kind       string `json:"kind" binding:"required,oneof=quiz mock"`
	Difficulty string `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
	Count      int    `json:"count" binding:"required,min=1,max=20"`
}
