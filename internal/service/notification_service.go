package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/config"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
)

// NotificationService broadcasts admin announcements. Creation stores the
// message and hands delivery to the fanout worker so admin requests do not
// block on a full user-table insert.
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	rdb              *redis.Client
	log              zerolog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(notificationRepo *repository.NotificationRepository, rdb *redis.Client, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		rdb:              rdb,
		log:              log.With().Str("component", "notification_service").Logger(),
	}
}

// Broadcast stores a notification and enqueues its fanout job.
func (s *NotificationService) Broadcast(ctx context.Context, message string) (*model.Notification, error) {
	n := &model.Notification{Message: message}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	raw, _ := json.Marshal(map[string]int{"notification_id": n.ID})
	if err := s.rdb.RPush(ctx, config.WorkerKey.NotifyFanoutQueue, raw).Err(); err != nil {
		// The notification row exists; only delivery is delayed. Surface it
		// so an admin can retry.
		return nil, fmt.Errorf("enqueue fanout for notification %d: %w", n.ID, err)
	}
	return n, nil
}

// ListForUser retrieves a user's notifications, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID int) ([]model.UserNotification, error) {
	notifications, err := s.notificationRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []model.UserNotification{}
	}
	return notifications, nil
}

// MarkRead stamps one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int) error {
	return s.notificationRepo.MarkRead(ctx, userID, notificationID)
}
