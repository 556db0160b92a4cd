package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// LanguageRepository handles language catalog data access.
type LanguageRepository struct {
	pool *pgxpool.Pool
}

// NewLanguageRepository creates a new LanguageRepository.
func NewLanguageRepository(pool *pgxpool.Pool) *LanguageRepository {
	return &LanguageRepository{pool: pool}
}

// List retrieves all languages ordered by name.
func (r *LanguageRepository) List(ctx context.Context) ([]model.Language, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, created_at FROM languages ORDER BY name`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var languages []model.Language
	for rows.Next() {
		var l model.Language
		if err := rows.Scan(&l.ID, &l.Name, &l.CreatedAt); err != nil {
			return nil, err
		}
		languages = append(languages, l)
	}
	return languages, rows.Err()
}

// GetByName retrieves a language by its exact name.
func (r *LanguageRepository) GetByName(ctx context.Context, name string) (*model.Language, error) {
	l := &model.Language{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM languages WHERE name = $1`, name,
	).Scan(&l.ID, &l.Name, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return l, nil
}

// Create inserts a new language. Fails on a duplicate name.
func (r *LanguageRepository) Create(ctx context.Context, l *model.Language) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO languages (name) VALUES ($1) RETURNING id, created_at`,
		l.Name,
	).Scan(&l.ID, &l.CreatedAt)
}

// Delete removes a language.
func (r *LanguageRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM languages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
