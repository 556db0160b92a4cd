package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/config"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
)

// ErrNoQuizHistory is returned when a study plan is requested for a language
// the user has never completed a quiz in.
var ErrNoQuizHistory = errors.New("no quiz history for this language")

// PlanService serves AI study plans and roadmaps. Generated texts are stored
// per (user, language, kind); a Redis worklist marks languages whose latest
// quiz completion makes the stored text stale.
type PlanService struct {
	textRepo   *repository.TextRepository
	resultRepo *repository.ResultRepository
	rdb        *redis.Client
	gemini     *GeminiService
	log        zerolog.Logger
}

// NewPlanService creates a new PlanService.
func NewPlanService(
	textRepo *repository.TextRepository,
	resultRepo *repository.ResultRepository,
	rdb *redis.Client,
	gemini *GeminiService,
	log zerolog.Logger,
) *PlanService {
	return &PlanService{
		textRepo:   textRepo,
		resultRepo: resultRepo,
		rdb:        rdb,
		gemini:     gemini,
		log:        log.With().Str("component", "plan_service").Logger(),
	}
}

// StudyPlan returns the study plan for a language, regenerating it when the
// worklist marks it stale or no plan exists yet. When generation fails but a
// stored plan exists, the stale plan is served instead of the error.
func (s *PlanService) StudyPlan(ctx context.Context, userID int, language string) (*model.GeneratedText, error) {
	return s.serve(ctx, userID, language, model.TextKindStudyPlan,
		config.CacheKey.StudyPlanWorklistKey(userID),
		func(ctx context.Context) (string, error) {
			latest, err := s.resultRepo.LatestQuizByLanguage(ctx, userID, language)
			if err != nil {
				return "", fmt.Errorf("latest quiz: %w", err)
			}
			if latest == nil {
				return "", ErrNoQuizHistory
			}
			return s.gemini.GenerateStudyPlan(ctx, language, latest.CorrectCount, latest.TotalCount)
		})
}

// Roadmap returns the learning roadmap for a language, with the same
// staleness and fallback rules as StudyPlan.
func (s *PlanService) Roadmap(ctx context.Context, userID int, language string) (*model.GeneratedText, error) {
	return s.serve(ctx, userID, language, model.TextKindRoadmap,
		config.CacheKey.RoadmapWorklistKey(userID),
		func(ctx context.Context) (string, error) {
			return s.gemini.GenerateRoadmap(ctx, language)
		})
}

// ListStudyPlans retrieves every stored study plan for a user.
func (s *PlanService) ListStudyPlans(ctx context.Context, userID int) ([]model.GeneratedText, error) {
	return s.textRepo.ListByUser(ctx, userID, model.TextKindStudyPlan)
}

// ListRoadmaps retrieves every stored roadmap for a user.
func (s *PlanService) ListRoadmaps(ctx context.Context, userID int) ([]model.GeneratedText, error) {
	return s.textRepo.ListByUser(ctx, userID, model.TextKindRoadmap)
}

func (s *PlanService) serve(
	ctx context.Context,
	userID int,
	language string,
	kind model.TextKind,
	worklistKey string,
	generate func(ctx context.Context) (string, error),
) (*model.GeneratedText, error) {
	stored, err := s.textRepo.Get(ctx, userID, language, kind)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", kind, err)
	}

	stale, err := s.rdb.SIsMember(ctx, worklistKey, language).Result()
	if err != nil {
		s.log.Warn().Err(err).Str("key", worklistKey).Msg("worklist check failed, treating stored text as fresh")
		stale = false
	}

	if stored != nil && !stale {
		return stored, nil
	}

	content, genErr := generate(ctx)
	if genErr != nil {
		if errors.Is(genErr, ErrNoQuizHistory) {
			return nil, genErr
		}
		if stored != nil {
			s.log.Warn().Err(genErr).
				Str("language", language).
				Str("kind", string(kind)).
				Msg("regeneration failed, serving stored text")
			return stored, nil
		}
		return nil, genErr
	}

	text := &model.GeneratedText{
		UserID:    userID,
		Language:  language,
		Kind:      kind,
		Content:   content,
		UpdatedAt: time.Now(),
	}
	if err := s.textRepo.Upsert(ctx, text); err != nil {
		return nil, fmt.Errorf("store %s: %w", kind, err)
	}

	if err := s.rdb.SRem(ctx, worklistKey, language).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", worklistKey).Msg("failed to clear worklist entry")
	}
	return text, nil
}
