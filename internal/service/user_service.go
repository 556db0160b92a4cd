package service

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
	"github.com/skilltracker/skilltracker-backend/internal/response"
)

// UserService handles profiles, play history, and admin user management.
type UserService struct {
	userRepo       *repository.UserRepository
	resultRepo     *repository.ResultRepository
	completionRepo *repository.CompletionRepository
	log            zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo *repository.UserRepository,
	resultRepo *repository.ResultRepository,
	completionRepo *repository.CompletionRepository,
	log zerolog.Logger,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		resultRepo:     resultRepo,
		completionRepo: completionRepo,
		log:            log.With().Str("component", "user_service").Logger(),
	}
}

// Profile retrieves a user by ID. Returns (nil, nil) when the account no
// longer exists.
func (s *UserService) Profile(ctx context.Context, userID int) (*model.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// History retrieves a user's past results, optionally filtered by kind
// ("quiz" or "mock", empty for both), newest first.
func (s *UserService) History(ctx context.Context, userID int, kind string) ([]model.Result, error) {
	results, err := s.resultRepo.ListByUser(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []model.Result{}
	}
	return results, nil
}

// MockCompletions lists the languages a user has permanently completed.
func (s *UserService) MockCompletions(ctx context.Context, userID int) ([]model.MockCompletion, error) {
	completions, err := s.completionRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if completions == nil {
		completions = []model.MockCompletion{}
	}
	return completions, nil
}

// List retrieves users for the admin panel with pagination and search.
func (s *UserService) List(ctx context.Context, page, perPage int, search string) ([]model.User, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	users, total, err := s.userRepo.List(ctx, page, perPage, search)
	if err != nil {
		return nil, nil, err
	}
	if users == nil {
		users = []model.User{}
	}

	return users, response.NewPagination(page, perPage, total), nil
}

// UpdateRole promotes or demotes a user.
func (s *UserService) UpdateRole(ctx context.Context, userID int, role model.Role) error {
	return s.userRepo.UpdateRole(ctx, userID, role)
}

// Delete removes a user account and everything it owns.
func (s *UserService) Delete(ctx context.Context, userID int) error {
	return s.userRepo.Delete(ctx, userID)
}

// ResultsForReview lists recent results across all users for the admin panel.
func (s *UserService) ResultsForReview(ctx context.Context, page, perPage int, kind, language string) ([]repository.ResultReviewRow, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	if perPage > 100 {
		perPage = 100
	}

	rows, total, err := s.resultRepo.ListForReview(ctx, page, perPage, kind, language)
	if err != nil {
		return nil, nil, err
	}
	if rows == nil {
		rows = []repository.ResultReviewRow{}
	}

	return rows, response.NewPagination(page, perPage, total), nil
}
