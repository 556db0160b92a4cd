package service

import (
	"context"

	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
)

type CardService struct {
	cardRepo *repository.CardRepository
}

func NewCardService(cardRepo *repository.CardRepository) *CardService {
	return &CardService{cardRepo: cardRepo}
}

// List retrieves cards, optionally filtered by kind.
func (s *CardService) List(ctx context.Context, kind string) ([]model.Card, error) {
	return s.cardRepo.List(ctx, kind)
}

// GetByLanguage retrieves the card for a (kind, language) pair.
func (s *CardService) GetByLanguage(ctx context.Context, kind model.AssessmentKind, language string) (*model.Card, error) {
	return s.cardRepo.GetByLanguage(ctx, kind, language)
}

func (s *CardService) Create(ctx context.Context, c *model.Card) error {
	return s.cardRepo.Create(ctx, c)
}

func (s *CardService) Update(ctx context.Context, id, questionCount, durationMinutes int) error {
	return s.cardRepo.Update(ctx, id, questionCount, durationMinutes)
}

func (s *CardService) Delete(ctx context.Context, id int) error {
	return s.cardRepo.Delete(ctx, id)
}
