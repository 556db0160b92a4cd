package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/config"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
)

const (
	ResultBatchSize    = 50
	ResultBatchTimeout = 2 * time.Second
	ResultPollTimeout  = 1 * time.Second
)

// ResultWorker drains the result queue into Postgres in batches. Sessions
// never block on the database; they only enqueue.
type ResultWorker struct {
	resultRepo *repository.ResultRepository
	rdb        *redis.Client
	log        zerolog.Logger
}

// NewResultWorker creates a new ResultWorker.
func NewResultWorker(resultRepo *repository.ResultRepository, rdb *redis.Client, log zerolog.Logger) *ResultWorker {
	return &ResultWorker{
		resultRepo: resultRepo,
		rdb:        rdb,
		log:        log.With().Str("component", "result_worker").Logger(),
	}
}

// Start runs the worker loop until ctx is cancelled. The remaining batch is
// flushed on shutdown.
func (w *ResultWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ResultWorker started")

	batch := make([]*model.Result, 0, ResultBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= ResultBatchSize || time.Since(lastFlush) >= ResultBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, ResultPollTimeout, config.WorkerKey.PersistResultsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var r model.Result
			if err := json.Unmarshal([]byte(item[1]), &r); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &r)
		}
	}
}

// flushSafe persists the batch in one UNNEST insert, falling back to
// row-by-row inserts and requeueing only the rows that still fail.
func (w *ResultWorker) flushSafe(ctx context.Context, batch []*model.Result) {
	if len(batch) == 0 {
		return
	}

	err := w.resultRepo.CreateBatch(ctx, batch)
	if err == nil {
		return
	}
	w.log.Warn().Err(err).Msg("bulk result insert failed, using fallback")

	for _, r := range batch {
		if err := w.resultRepo.Create(ctx, r); err != nil {
			w.log.Error().Err(err).
				Int("user_id", r.UserID).
				Str("language", r.Language).
				Msg("single result insert failed, requeueing")
			raw, _ := json.Marshal(r)
			w.rdb.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
		}
	}
}
