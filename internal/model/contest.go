package model

import (
	"time"

	"github.com/google/uuid"
)

// Contest is a scheduled competitive event for one language.
type Contest struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Language  string    `json:"language"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateContestRequest is the admin payload for scheduling a contest.
type CreateContestRequest struct {
	Title    string    `json:"title" binding:"required,min=3,max=255"`
	Language string    `json:"language" binding:"required,min=1,max=50"`
	StartsAt time.Time `json:"starts_at" binding:"required"`
	EndsAt   time.Time `json:"ends_at" binding:"required,gtfield=StartsAt"`
}

// UpdateContestRequest is the admin payload for rescheduling a contest.
type UpdateContestRequest struct {
	Title    string     `json:"title" binding:"omitempty,min=3,max=255"`
	StartsAt *time.Time `json:"starts_at" binding:"omitempty"`
	EndsAt   *time.Time `json:"ends_at" binding:"omitempty"`
}
