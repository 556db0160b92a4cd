package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// ResultReviewRow combines a result with its owner for the admin review list.
type ResultReviewRow struct {
	model.Result
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// ResultRepository handles persisted assessment results.
type ResultRepository struct {
	pool *pgxpool.Pool
}

// NewResultRepository creates a new ResultRepository.
func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

// Create inserts a single result row.
func (r *ResultRepository) Create(ctx context.Context, res *model.Result) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO results (user_id, kind, language, correct_count, total_count, played_questions, played_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		res.UserID, res.Kind, res.Language, res.CorrectCount, res.TotalCount, res.PlayedQuestions, res.PlayedAt,
	).Scan(&res.ID)
}

// CreateBatch inserts multiple results using UNNEST in one round trip. Used
// by the persist worker.
func (r *ResultRepository) CreateBatch(ctx context.Context, batch []*model.Result) error {
	n := len(batch)
	userIDs := make([]int, n)
	kinds := make([]string, n)
	languages := make([]string, n)
	corrects := make([]int, n)
	totals := make([]int, n)
	played := make([][]byte, n)
	playedAts := make([]time.Time, n)

	for i, res := range batch {
		userIDs[i] = res.UserID
		kinds[i] = string(res.Kind)
		languages[i] = res.Language
		corrects[i] = res.CorrectCount
		totals[i] = res.TotalCount
		playedAts[i] = res.PlayedAt
		if res.PlayedQuestions != nil {
			raw, err := json.Marshal(res.PlayedQuestions)
			if err != nil {
				return err
			}
			played[i] = raw
		}
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO results (user_id, kind, language, correct_count, total_count, played_questions, played_at)
		 SELECT u.user_id, u.kind, u.language, u.correct_count, u.total_count, u.played_questions, u.played_at
		 FROM UNNEST(
			$1::int[],
			$2::text[],
			$3::text[],
			$4::int[],
			$5::int[],
			$6::jsonb[],
			$7::timestamptz[]
		 ) AS u (user_id, kind, language, correct_count, total_count, played_questions, played_at)`,
		userIDs, kinds, languages, corrects, totals, played, playedAts,
	)
	return err
}

// ListByUser retrieves a user's results, newest first, optionally filtered by kind.
func (r *ResultRepository) ListByUser(ctx context.Context, userID int, kind string) ([]model.Result, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, kind, language, correct_count, total_count, played_questions, played_at
		 FROM results
		 WHERE user_id = $1 AND ($2 = '' OR kind = $2)
		 ORDER BY played_at DESC`, userID, kind,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.Result
	for rows.Next() {
		var res model.Result
		if err := rows.Scan(&res.ID, &res.UserID, &res.Kind, &res.Language, &res.CorrectCount, &res.TotalCount, &res.PlayedQuestions, &res.PlayedAt); err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// LatestQuizByLanguage retrieves the user's most recent quiz result for a
// language, including played questions. Used for study-plan generation.
// Returns (nil, nil) when the user has no quiz history for the language.
func (r *ResultRepository) LatestQuizByLanguage(ctx context.Context, userID int, language string) (*model.Result, error) {
	res := &model.Result{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, kind, language, correct_count, total_count, played_questions, played_at
		 FROM results
		 WHERE user_id = $1 AND kind = 'quiz' AND language = $2
		 ORDER BY played_at DESC
		 LIMIT 1`, userID, language,
	).Scan(&res.ID, &res.UserID, &res.Kind, &res.Language, &res.CorrectCount, &res.TotalCount, &res.PlayedQuestions, &res.PlayedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ListForReview retrieves paginated results joined with user identity,
// optionally filtered by kind and language. Used by the admin panel.
func (r *ResultRepository) ListForReview(ctx context.Context, page, perPage int, kind, language string) ([]ResultReviewRow, int64, error) {
	offset := (page - 1) * perPage

	baseQuery := `
		FROM results res
		JOIN users u ON res.user_id = u.id
		WHERE ($1 = '' OR res.kind = $1) AND ($2 = '' OR res.language = $2)
	`

	var total int64
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*)"+baseQuery, kind, language).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT res.id, res.user_id, res.kind, res.language, res.correct_count, res.total_count,
		        res.played_questions, res.played_at, u.name, u.email`+
			baseQuery+`
		 ORDER BY res.played_at DESC
		 LIMIT $3 OFFSET $4`, kind, language, perPage, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []ResultReviewRow
	for rows.Next() {
		var row ResultReviewRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Kind, &row.Language, &row.CorrectCount, &row.TotalCount,
			&row.PlayedQuestions, &row.PlayedAt, &row.UserName, &row.UserEmail); err != nil {
			return nil, 0, err
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}
