package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/kasapos/kasapos/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, fmt.Errorf("%w: invalid category id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form CategoryForm) (Category, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: category name is required", shared.ErrValidation)
	}
	c, err := s.repo.Create(ctx, name)
	if errors.Is(err, shared.ErrConflict) {
		return Category{}, fmt.Errorf("%w: category name already exists", shared.ErrConflict)
	}
	return c, err
}

func (s *Service) Update(ctx context.Context, id int64, form CategoryForm) (Category, error) {
	name := strings.TrimSpace(form.Name)
	if name == "" {
		return Category{}, fmt.Errorf("%w: category name is required", shared.ErrValidation)
	}
	if err := s.repo.Update(ctx, id, name); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return Category{}, fmt.Errorf("%w: category name already exists", shared.ErrConflict)
		}
		return Category{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid category id", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
