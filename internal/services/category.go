package services

import (
	"context"
	"fmt"
	"time"

	"eventstage/internal/domain"
)

type categoryService struct {
	categoryRepo   domain.CategoryRepository
	contextTimeout time.Duration
}

func NewCategoryService(categoryRepo domain.CategoryRepository, timeout time.Duration) domain.CategoryService {
	return &categoryService{categoryRepo: categoryRepo, contextTimeout: timeout}
}

func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []*domain.Category{}
	}
	return categories, nil
}
