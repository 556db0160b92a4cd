package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// CompletionRepository handles mock-test perfect-score completion records.
type CompletionRepository struct {
	pool *pgxpool.Pool
}

// NewCompletionRepository creates a new CompletionRepository.
func NewCompletionRepository(pool *pgxpool.Pool) *CompletionRepository {
	return &CompletionRepository{pool: pool}
}

// Get retrieves the completion record for a (user, language) pair.
// Returns (nil, nil) when no completion exists.
func (r *CompletionRepository) Get(ctx context.Context, userID int, language string) (*model.MockCompletion, error) {
	c := &model.MockCompletion{}
	err := r.pool.QueryRow(ctx,
		`SELECT user_id, language, completed_at
		 FROM mock_completions
		 WHERE user_id = $1 AND language = $2`, userID, language,
	).Scan(&c.UserID, &c.Language, &c.CompletedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Upsert records a completion. Idempotent: a repeated upsert keeps the
// original completion timestamp.
func (r *CompletionRepository) Upsert(ctx context.Context, userID int, language string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO mock_completions (user_id, language)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, language) DO NOTHING`,
		userID, language,
	)
	return err
}

// ListByUser retrieves all completions for a user.
func (r *CompletionRepository) ListByUser(ctx context.Context, userID int) ([]model.MockCompletion, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id, language, completed_at
		 FROM mock_completions
		 WHERE user_id = $1
		 ORDER BY completed_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []model.MockCompletion
	for rows.Next() {
		var c model.MockCompletion
		if err := rows.Scan(&c.UserID, &c.Language, &c.CompletedAt); err != nil {
			return nil, err
		}
		completions = append(completions, c)
	}
	return completions, rows.Err()
}
