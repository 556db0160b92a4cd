package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
)

// ErrContestWindow is returned when a contest would end before it starts.
var ErrContestWindow = errors.New("contest must end after it starts")

type ContestService struct {
	contestRepo *repository.ContestRepository
}

func NewContestService(contestRepo *repository.ContestRepository) *ContestService {
	return &ContestService{contestRepo: contestRepo}
}

func (s *ContestService) List(ctx context.Context) ([]model.Contest, error) {
	contests, err := s.contestRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if contests == nil {
		contests = []model.Contest{}
	}
	return contests, nil
}

func (s *ContestService) Get(ctx context.Context, id uuid.UUID) (*model.Contest, error) {
	return s.contestRepo.GetByID(ctx, id)
}

func (s *ContestService) Create(ctx context.Context, c *model.Contest) error {
	if !c.EndsAt.After(c.StartsAt) {
		return ErrContestWindow
	}
	return s.contestRepo.Create(ctx, c)
}

// Update applies a partial reschedule to an existing contest.
func (s *ContestService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateContestRequest) (*model.Contest, error) {
	contest, err := s.contestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contest == nil {
		return nil, nil
	}

	if req.Title != "" {
		contest.Title = req.Title
	}
	if req.StartsAt != nil {
		contest.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		contest.EndsAt = *req.EndsAt
	}
	if !contest.EndsAt.After(contest.StartsAt) {
		return nil, ErrContestWindow
	}

	if err := s.contestRepo.Update(ctx, contest); err != nil {
		return nil, err
	}
	return contest, nil
}

func (s *ContestService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.contestRepo.Delete(ctx, id)
}
