package service

import (
	"context"

	"github.com/skilltracker/skilltracker-backend/internal/model"
	"github.com/skilltracker/skilltracker-backend/internal/repository"
)

type LanguageService struct {
	languageRepo *repository.LanguageRepository
}

func NewLanguageService(languageRepo *repository.LanguageRepository) *LanguageService {
	return &LanguageService{languageRepo: languageRepo}
}

func (s *LanguageService) List(ctx context.Context) ([]model.Language, error) {
	return s.languageRepo.List(ctx)
}

func (s *LanguageService) Get(ctx context.Context, name string) (*model.Language, error) {
	return s.languageRepo.GetByName(ctx, name)
}

func (s *LanguageService) Create(ctx context.Context, l *model.Language) error {
	return s.languageRepo.Create(ctx, l)
}

func (s *LanguageService) Delete(ctx context.Context, id int) error {
	return s.languageRepo.Delete(ctx, id)
}
