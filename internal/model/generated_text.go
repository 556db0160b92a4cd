package model

import "time"

// TextKind separates study plans from roadmaps in the generated-text store.
type TextKind string

const (
	TextKindStudyPlan TextKind = "study_plan"
	TextKindRoadmap   TextKind = "roadmap"
)

// GeneratedText is an AI-generated document owned by a user, keyed by
// (language, kind) with set-or-overwrite semantics.
type GeneratedText struct {
	UserID    int       `json:"user_id"`
	Language  string    `json:"language"`
	Kind      TextKind  `json:"kind"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updated_at"`
}
