package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// ChatRepository persists chatbot transcripts.
type ChatRepository struct {
	pool *pgxpool.Pool
}

// NewChatRepository creates a new ChatRepository.
func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{pool: pool}
}

// Insert stores one transcript entry.
func (r *ChatRepository) Insert(ctx context.Context, m *model.ChatMessage) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO chat_messages (user_id, sender, content)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		m.UserID, m.Sender, m.Content,
	).Scan(&m.ID, &m.CreatedAt)
}

// ListByUser retrieves a user's transcript in chronological order, capped at
// limit entries counted from the end.
func (r *ChatRepository) ListByUser(ctx context.Context, userID, limit int) ([]model.ChatMessage, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, sender, content, created_at FROM (
		   SELECT id, user_id, sender, content, created_at
		   FROM chat_messages
		   WHERE user_id = $1
		   ORDER BY created_at DESC
		   LIMIT $2
		 ) recent
		 ORDER BY created_at ASC`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []model.ChatMessage
	for rows.Next() {
		var m model.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
