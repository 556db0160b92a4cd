package assessment

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/skilltracker/skilltracker-backend/internal/config"
)

// scratchTTL bounds abandoned fragments. Long enough to survive any realistic
// reload gap, short enough that quit-by-closing-the-tab does not pile up keys.
const scratchTTL = 24 * time.Hour

// RedisScratch stores session fragments in Redis under config.CacheKey keys.
type RedisScratch struct {
	rdb *redis.Client
}

// NewRedisScratch creates a Redis-backed Scratch store.
func NewRedisScratch(rdb *redis.Client) *RedisScratch {
	return &RedisScratch{rdb: rdb}
}

func (s *RedisScratch) timerKey(key ScratchKey) string {
	return config.CacheKey.ScratchTimerKey(key.UserID, string(key.Kind), key.Language)
}

func (s *RedisScratch) answersKey(key ScratchKey) string {
	return config.CacheKey.ScratchAnswersKey(key.UserID, string(key.Kind), key.Language)
}

// Timer returns the persisted countdown seconds, ok=false on cache miss.
func (s *RedisScratch) Timer(ctx context.Context, key ScratchKey) (int, bool, error) {
	val, err := s.rdb.Get(ctx, s.timerKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get timer: %w", err)
	}
	seconds, err := strconv.Atoi(val)
	if err != nil {
		// Corrupt value — treat as absent rather than poisoning the session.
		return 0, false, nil
	}
	return seconds, true, nil
}

// SetTimer overwrites the persisted countdown value.
func (s *RedisScratch) SetTimer(ctx context.Context, key ScratchKey, seconds int) error {
	return s.rdb.Set(ctx, s.timerKey(key), seconds, scratchTTL).Err()
}

// Answers returns the persisted index→option hash.
func (s *RedisScratch) Answers(ctx context.Context, key ScratchKey) (map[int]string, error) {
	raw, err := s.rdb.HGetAll(ctx, s.answersKey(key)).Result()
	if err != nil {
		return nil, fmt.Errorf("get answers: %w", err)
	}

	answers := make(map[int]string, len(raw))
	for field, option := range raw {
		idx, err := strconv.Atoi(field)
		if err != nil {
			continue // Skip corrupt fields
		}
		answers[idx] = option
	}
	return answers, nil
}

// SetAnswer overwrites one answer field in the hash.
func (s *RedisScratch) SetAnswer(ctx context.Context, key ScratchKey, index int, option string) error {
	k := s.answersKey(key)
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, k, strconv.Itoa(index), option)
	pipe.Expire(ctx, k, scratchTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// Clear deletes both fragments for the key.
func (s *RedisScratch) Clear(ctx context.Context, key ScratchKey) error {
	return s.rdb.Del(ctx, s.timerKey(key), s.answersKey(key)).Err()
}
