package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// ContestRepository manages scheduled contest rows.
type ContestRepository struct {
	pool *pgxpool.Pool
}

// NewContestRepository creates a new ContestRepository.
func NewContestRepository(pool *pgxpool.Pool) *ContestRepository {
	return &ContestRepository{pool: pool}
}

// List retrieves contests ordered by start time, upcoming first.
func (r *ContestRepository) List(ctx context.Context) ([]model.Contest, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, language, starts_at, ends_at, created_at
		 FROM contests
		 ORDER BY starts_at ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contests []model.Contest
	for rows.Next() {
		var c model.Contest
		if err := rows.Scan(&c.ID, &c.Title, &c.Language, &c.StartsAt, &c.EndsAt, &c.CreatedAt); err != nil {
			return nil, err
		}
		contests = append(contests, c)
	}
	return contests, rows.Err()
}

// GetByID retrieves one contest. Returns (nil, nil) when it does not exist.
func (r *ContestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Contest, error) {
	var c model.Contest
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, language, starts_at, ends_at, created_at
		 FROM contests WHERE id = $1`, id,
	).Scan(&c.ID, &c.Title, &c.Language, &c.StartsAt, &c.EndsAt, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a contest.
func (r *ContestRepository) Create(ctx context.Context, c *model.Contest) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO contests (title, language, starts_at, ends_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		c.Title, c.Language, c.StartsAt, c.EndsAt,
	).Scan(&c.ID, &c.CreatedAt)
}

// Update modifies an existing contest and returns the stored row.
func (r *ContestRepository) Update(ctx context.Context, c *model.Contest) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE contests SET title = $2, starts_at = $3, ends_at = $4 WHERE id = $1`,
		c.ID, c.Title, c.StartsAt, c.EndsAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a contest.
func (r *ContestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
