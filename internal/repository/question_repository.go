package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// QuestionRepository handles question pool data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

// ListByPool retrieves the full question pool for a language and kind.
func (r *QuestionRepository) ListByPool(ctx context.Context, kind model.AssessmentKind, language string) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, language, kind, question_text, options, correct_answer, difficulty, created_at
		 FROM questions WHERE kind = $1 AND language = $2
		 ORDER BY created_at`, kind, language,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// List retrieves questions with pagination and optional kind/language filters.
func (r *QuestionRepository) List(ctx context.Context, page, perPage int, kind, language string) ([]model.Question, int64, error) {
	offset := (page - 1) * perPage

	baseQuery := ` FROM questions WHERE ($1 = '' OR kind = $1) AND ($2 = '' OR language = $2)`

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, kind, language).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, language, kind, question_text, options, correct_answer, difficulty, created_at`+
			baseQuery+`
		 ORDER BY created_at DESC
		 LIMIT $3 OFFSET $4`, kind, language, perPage, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	questions, err := scanQuestions(rows)
	return questions, total, err
}

// GetByID retrieves a question by its UUID. Returns (nil, nil) when it does
// not exist.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, language, kind, question_text, options, correct_answer, difficulty, created_at
		 FROM questions WHERE id = $1`, id,
	).Scan(&q.ID, &q.Language, &q.Kind, &q.QuestionText, &q.Options, &q.CorrectAnswer, &q.Difficulty, &q.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return q, nil
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (language, kind, question_text, options, correct_answer, difficulty)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		q.Language, q.Kind, q.QuestionText, q.Options, q.CorrectAnswer, q.Difficulty,
	).Scan(&q.ID, &q.CreatedAt)
}

// CreateBatch inserts multiple questions in one transaction. Used by the AI
// generation endpoint so a partial failure does not leave half a batch.
func (r *QuestionRepository) CreateBatch(ctx context.Context, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := range questions {
		q := &questions[i]
		if err := tx.QueryRow(ctx,
			`INSERT INTO questions (language, kind, question_text, options, correct_answer, difficulty)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id, created_at`,
			q.Language, q.Kind, q.QuestionText, q.Options, q.CorrectAnswer, q.Difficulty,
		).Scan(&q.ID, &q.CreatedAt); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

// Update modifies an existing question.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET question_text = $1, options = $2, correct_answer = $3, difficulty = $4
		 WHERE id = $5`,
		q.QuestionText, q.Options, q.CorrectAnswer, q.Difficulty, q.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Delete removes a question.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

type questionRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanQuestions(rows questionRows) ([]model.Question, error) {
	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ID, &q.Language, &q.Kind, &q.QuestionText, &q.Options, &q.CorrectAnswer, &q.Difficulty, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
