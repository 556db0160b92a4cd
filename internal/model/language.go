package model

import "time"

// Language is a catalog entry for a programming language with question pools.
type Language struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLanguageRequest is the admin payload for adding a language.
type CreateLanguageRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}
