package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// TextRepository handles AI-generated study plans and roadmaps, stored as an
// explicit (user, language, kind) → content mapping.
type TextRepository struct {
	pool *pgxpool.Pool
}

// NewTextRepository creates a new TextRepository.
func NewTextRepository(pool *pgxpool.Pool) *TextRepository {
	return &TextRepository{pool: pool}
}

// Get retrieves the stored document. Returns (nil, nil) when none exists.
func (r *TextRepository) Get(ctx context.Context, userID int, language string, kind model.TextKind) (*model.GeneratedText, error) {
	t := &model.GeneratedText{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, language, kind, content, updated_at
		 FROM generated_texts
		 WHERE user_id = $1 AND language = $2 AND kind = $3`, userID, language, kind,
	).Scan(&t.UserID, &t.Language, &t.Kind, &t.Content, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Upsert stores the document with set-or-overwrite semantics.
func (r *TextRepository) Upsert(ctx context.Context, t *model.GeneratedText) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO generated_texts (user_id, language, kind, content, updated_at)
		 VALUES ($1, $2, $3, $4, NOW())
		 ON CONFLICT (user_id, language, kind) DO UPDATE
		 SET content = EXCLUDED.content, updated_at = NOW()
		 RETURNING updated_at`,
		t.UserID, t.Language, t.Kind, t.Content,
	).Scan(&t.UpdatedAt)
}

// ListByUser retrieves every stored document of one kind for a user.
func (r *TextRepository) ListByUser(ctx context.Context, userID int, kind model.TextKind) ([]model.GeneratedText, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, language, kind, content, updated_at
		 FROM generated_texts
		 WHERE user_id = $1 AND kind = $2
		 ORDER BY language`, userID, kind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var texts []model.GeneratedText
	for rows.Next() {
		var t model.GeneratedText
		if err := rows.Scan(&t.UserID, &t.Language, &t.Kind, &t.Content, &t.UpdatedAt); err != nil {
			return nil, err
		}
		texts = append(texts, t)
	}
	return texts, rows.Err()
}
