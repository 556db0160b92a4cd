package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// CardRepository handles card configuration data access.
type CardRepository struct {
	pool *pgxpool.Pool
}

// NewCardRepository creates a new CardRepository.
func NewCardRepository(pool *pgxpool.Pool) *CardRepository {
	return &CardRepository{pool: pool}
}

// GetByLanguage retrieves the card for one (kind, language) pair. Returns
// (nil, nil) when none is configured.
func (r *CardRepository) GetByLanguage(ctx context.Context, kind model.AssessmentKind, language string) (*model.Card, error) {
	c := &model.Card{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, language, kind, question_count, duration_minutes, created_at, updated_at
		 FROM cards WHERE kind = $1 AND language = $2`, kind, language,
	).Scan(&c.ID, &c.Language, &c.Kind, &c.QuestionCount, &c.DurationMinutes, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List retrieves all cards, optionally filtered by kind.
func (r *CardRepository) List(ctx context.Context, kind string) ([]model.Card, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, language, kind, question_count, duration_minutes, created_at, updated_at
		 FROM cards WHERE ($1 = '' OR kind = $1)
		 ORDER BY language, kind`, kind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		var c model.Card
		if err := rows.Scan(&c.ID, &c.Language, &c.Kind, &c.QuestionCount, &c.DurationMinutes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// Create inserts a new card. Fails on a duplicate (language, kind) pair.
func (r *CardRepository) Create(ctx context.Context, c *model.Card) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO cards (language, kind, question_count, duration_minutes)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		c.Language, c.Kind, c.QuestionCount, c.DurationMinutes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

// Update resizes an existing card.
func (r *CardRepository) Update(ctx context.Context, id, questionCount, durationMinutes int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cards
		 SET question_count = $1, duration_minutes = $2, updated_at = NOW()
		 WHERE id = $3`,
		questionCount, durationMinutes, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a card.
func (r *CardRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
