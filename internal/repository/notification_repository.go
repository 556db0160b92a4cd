package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skilltracker/skilltracker-backend/internal/model"
)

// NotificationRepository handles broadcast notifications and their per-user
// delivery rows.
type NotificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

// Create inserts a broadcast notification.
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO notifications (message) VALUES ($1) RETURNING id, created_at`,
		n.Message,
	).Scan(&n.ID, &n.CreatedAt)
}

// FanOut inserts a delivery row for every user in one statement. Existing
// deliveries are skipped so a requeued fanout stays idempotent.
func (r *NotificationRepository) FanOut(ctx context.Context, notificationID int, userIDs []int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_notifications (user_id, notification_id)
		 SELECT u.user_id, $1 FROM UNNEST($2::int[]) AS u (user_id)
		 ON CONFLICT (user_id, notification_id) DO NOTHING`,
		notificationID, userIDs,
	)
	return err
}

// ListForUser retrieves a user's notifications, newest first.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID int) ([]model.UserNotification, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT n.id, n.message, n.created_at, un.read_at
		 FROM user_notifications un
		 JOIN notifications n ON un.notification_id = n.id
		 WHERE un.user_id = $1
		 ORDER BY n.created_at DESC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []model.UserNotification
	for rows.Next() {
		var n model.UserNotification
		if err := rows.Scan(&n.NotificationID, &n.Message, &n.CreatedAt, &n.ReadAt); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkRead stamps a delivery row as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_notifications
		 SET read_at = NOW()
		 WHERE user_id = $1 AND notification_id = $2 AND read_at IS NULL`,
		userID, notificationID,
	)
	return err
}
