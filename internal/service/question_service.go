package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
	"github.com/skilltracker/skilltracker-backend/internal/response"
)

// QuestionService handles question pool administration.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	assessments  *AssessmentService
	gemini       *GeminiService
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, assessments *AssessmentService, gemini *GeminiService) *QuestionService {
	return &QuestionService{questionRepo: questionRepo, assessments: assessments, gemini: gemini}
}

// List retrieves questions with pagination and optional kind/language filters.
func (s *QuestionService) List(ctx context.Context, page, perPage int, kind, language string) ([]model.Question, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	questions, total, err := s.questionRepo.List(ctx, page, perPage, kind, language)
	if err != nil {
		return nil, nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}

	return questions, response.NewPagination(page, perPage, total), nil
}

// Get retrieves a single question.
func (s *QuestionService) Get(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return s.questionRepo.GetByID(ctx, id)
}

// Create stores a question and invalidates the affected pool cache.
func (s *QuestionService) Create(ctx context.Context, q *model.Question) error {
	if err := s.questionRepo.Create(ctx, q); err != nil {
		return err
	}
	s.assessments.InvalidatePool(ctx, q.Kind, q.Language)
	return nil
}

// Update modifies a question and invalidates the affected pool cache.
func (s *QuestionService) Update(ctx context.Context, q *model.Question) error {
	if err := s.questionRepo.Update(ctx, q); err != nil {
		return err
	}
	s.assessments.InvalidatePool(ctx, q.Kind, q.Language)
	return nil
}

// Delete removes a question and invalidates the affected pool cache. The
// question is looked up first so the right cache key can be dropped.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if q == nil {
		return pgx.ErrNoRows
	}
	if err := s.questionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.assessments.InvalidatePool(ctx, q.Kind, q.Language)
	return nil
}

// Generate asks Gemini for new questions, stores them in one transaction, and
// invalidates the affected pool cache. Returns the stored questions.
func (s *QuestionService) Generate(ctx context.Context, req *model.GenerateQuestionsRequest) ([]model.Question, error) {
	kind := model.AssessmentKind(req.Kind)
	if !kind.Valid() {
		return nil, fmt.Errorf("invalid assessment kind %q", req.Kind)
	}

	questions, err := s.gemini.GenerateQuestions(ctx, req.Language, kind, req.Count, model.Difficulty(req.Difficulty))
	if err != nil {
		return nil, err
	}
	if err := s.questionRepo.CreateBatch(ctx, questions); err != nil {
		return nil, fmt.Errorf("store generated questions: %w", err)
	}
	s.assessments.InvalidatePool(ctx, kind, req.Language)
	return questions, nil
}
