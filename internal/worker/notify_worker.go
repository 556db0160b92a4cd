package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/config"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
)

const NotifyPollTimeout = 1 * time.Second

// NotifyWorker fans broadcast notifications out to per-user delivery rows.
// The fanout insert is idempotent, so a requeued job never duplicates
// deliveries.
type NotifyWorker struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	rdb              *redis.Client
	log              zerolog.Logger
}

// NewNotifyWorker creates a new NotifyWorker.
func NewNotifyWorker(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *NotifyWorker {
	return &NotifyWorker{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		rdb:              rdb,
		log:              log.With().Str("component", "notify_worker").Logger(),
	}
}

type fanoutJob struct {
	NotificationID int `json:"notification_id"`
}

// Start runs the worker loop until ctx is cancelled.
func (w *NotifyWorker) Start(ctx context.Context) {
	w.log.Info().Msg("NotifyWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested")
			return

		default:
			item, err := w.rdb.BLPop(ctx, NotifyPollTimeout, config.WorkerKey.NotifyFanoutQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var job fanoutJob
			if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			if err := w.fanOut(ctx, job.NotificationID); err != nil {
				w.log.Error().Err(err).
					Int("notification_id", job.NotificationID).
					Msg("fanout failed, requeueing")
				raw, _ := json.Marshal(job)
				w.rdb.RPush(ctx, config.WorkerKey.NotifyFanoutQueue, raw)
				// Back off so a dead database does not spin the loop.
				time.Sleep(time.Second)
			}
		}
	}
}

func (w *NotifyWorker) fanOut(ctx context.Context, notificationID int) error {
	userIDs, err := w.userRepo.ListIDs(ctx)
	if err != nil {
		return err
	}
	if len(userIDs) == 0 {
		return nil
	}

	if err := w.notificationRepo.FanOut(ctx, notificationID, userIDs); err != nil {
		return err
	}

	w.log.Info().
		Int("notification_id", notificationID).
		Int("users", len(userIDs)).
		Msg("notification fanned out")
	return nil
}
