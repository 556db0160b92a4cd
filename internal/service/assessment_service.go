package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/config"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
)

// poolCacheTTL bounds how stale a cached question pool can get after admin
// edits that bypass invalidation.
const poolCacheTTL = 10 * time.Minute

// AssessmentService backs live assessment sessions: it feeds them question
// pools and cards, collects their results onto the persistence queue, and
// tracks permanent mock completions. It satisfies the session engine's
// PoolProvider, CardProvider, ResultSink, and CompletionRegistry interfaces.
type AssessmentService struct {
	questionRepo   *repository.QuestionRepository
	cardRepo       *repository.CardRepository
	completionRepo *repository.CompletionRepository
	rdb            *redis.Client
	log            zerolog.Logger
}

// NewAssessmentService creates a new AssessmentService.
func NewAssessmentService(
	questionRepo *repository.QuestionRepository,
	cardRepo *repository.CardRepository,
	completionRepo *repository.CompletionRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *AssessmentService {
	return &AssessmentService{
		questionRepo:   questionRepo,
		cardRepo:       cardRepo,
		completionRepo: completionRepo,
		rdb:            rdb,
		log:            log.With().Str("component", "assessment_service").Logger(),
	}
}

// FetchQuestions returns the full pool for a (kind, language) pair, serving
// from the Redis payload cache when possible. A cache miss or a corrupt
// payload falls through to Postgres and repopulates the cache.
func (s *AssessmentService) FetchQuestions(ctx context.Context, kind model.AssessmentKind, language string) ([]model.Question, error) {
	cacheKey := config.CacheKey.PoolPayloadKey(string(kind), language)

	cached, err := s.rdb.Get(ctx, cacheKey).Result()
	if err == nil {
		var pool []model.Question
		if jsonErr := json.Unmarshal([]byte(cached), &pool); jsonErr == nil {
			return pool, nil
		}
		s.log.Warn().Str("key", cacheKey).Msg("corrupt pool payload in cache, refetching")
	} else if err != redis.Nil {
		s.log.Warn().Err(err).Str("key", cacheKey).Msg("pool cache read failed, falling back to database")
	}

	pool, err := s.questionRepo.ListByPool(ctx, kind, language)
	if err != nil {
		return nil, fmt.Errorf("list pool: %w", err)
	}

	if raw, jsonErr := json.Marshal(pool); jsonErr == nil {
		if setErr := s.rdb.Set(ctx, cacheKey, raw, poolCacheTTL).Err(); setErr != nil {
			s.log.Warn().Err(setErr).Str("key", cacheKey).Msg("failed to populate pool cache")
		}
	}
	return pool, nil
}

// InvalidatePool drops the cached payload for a (kind, language) pair. Called
// after admin question mutations.
func (s *AssessmentService) InvalidatePool(ctx context.Context, kind model.AssessmentKind, language string) {
	key := config.CacheKey.PoolPayloadKey(string(kind), language)
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("failed to invalidate pool cache")
	}
}

// PrewarmPools fills the pool cache for every configured card so first
// sessions after boot skip the database. Failures are logged, not fatal.
func (s *AssessmentService) PrewarmPools(ctx context.Context) {
	cards, err := s.cardRepo.List(ctx, "")
	if err != nil {
		s.log.Warn().Err(err).Msg("prewarm skipped, card list failed")
		return
	}
	for _, card := range cards {
		if _, err := s.FetchQuestions(ctx, card.Kind, card.Language); err != nil {
			s.log.Warn().Err(err).
				Str("kind", string(card.Kind)).
				Str("language", card.Language).
				Msg("prewarm fetch failed")
		}
	}
	s.log.Info().Int("cards", len(cards)).Msg("question pool cache prewarmed")
}

// FetchCard returns the (questionCount, durationMinutes) card for a pair, or
// (nil, nil) when none is configured.
func (s *AssessmentService) FetchCard(ctx context.Context, kind model.AssessmentKind, language string) (*model.Card, error) {
	return s.cardRepo.GetByLanguage(ctx, kind, language)
}

// SubmitResult enqueues a completed result for the persistence worker and,
// for quizzes, flags the language for study-plan and roadmap regeneration.
func (s *AssessmentService) SubmitResult(ctx context.Context, result *model.Result) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	pipe := s.rdb.Pipeline()
	pipe.RPush(ctx, config.WorkerKey.PersistResultsQueue, raw)
	if result.Kind == model.KindQuiz {
		pipe.SAdd(ctx, config.CacheKey.StudyPlanWorklistKey(result.UserID), result.Language)
		pipe.SAdd(ctx, config.CacheKey.RoadmapWorklistKey(result.UserID), result.Language)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("enqueue result: %w", err)
	}
	return nil
}

// SaveClientResult accepts a result scored outside a live session and routes
// it through the same queue as engine submissions.
func (s *AssessmentService) SaveClientResult(ctx context.Context, userID int, req *model.SaveResultRequest) (*model.Result, error) {
	kind := model.AssessmentKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid assessment kind %q", req.Kind)
	}

	result := &model.Result{
		UserID:       userID,
		Kind:         kind,
		Language:     req.Language,
		CorrectCount: req.Correct,
		TotalCount:   req.Total,
		PlayedAt:     time.Now(),
	}
	if kind == model.KindQuiz {
		result.PlayedQuestions = req.PlayedQuestions
	}
	if err := s.SubmitResult(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Status reports whether the mock test for a language is locked for a user.
func (s *AssessmentService) Status(ctx context.Context, userID int, language string) (*model.MockStatus, error) {
	completion, err := s.completionRepo.Get(ctx, userID, language)
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	if completion == nil {
		return &model.MockStatus{Disable: false}, nil
	}
	date := completion.CompletedAt
	return &model.MockStatus{Disable: true, Date: &date}, nil
}

// MarkCompleted permanently records a perfect mock score for a language.
func (s *AssessmentService) MarkCompleted(ctx context.Context, userID int, language string) error {
	return s.completionRepo.Upsert(ctx, userID, language)
}
