package suppliers

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

func (s *Service) List(ctx context.Context) ([]Supplier, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Supplier, error) {
	if id <= 0 {
		return Supplier{}, fmt.Errorf("%w: invalid supplier id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form SupplierForm) (Supplier, error) {
	if err := validate(form); err != nil {
		return Supplier{}, err
	}
	sup, err := s.repo.Create(ctx, Supplier{
		Name:        strings.TrimSpace(form.Name),
		PhoneNumber: strings.TrimSpace(form.PhoneNumber),
		Address:     strings.TrimSpace(form.Address),
	})
	if errors.Is(err, shared.ErrConflict) {
		return Supplier{}, fmt.Errorf("%w: supplier name already exists", shared.ErrConflict)
	}
	return sup, err
}

func (s *Service) Update(ctx context.Context, id int64, form SupplierForm) (Supplier, error) {
	if err := validate(form); err != nil {
		return Supplier{}, err
	}
	err := s.repo.Update(ctx, Supplier{
		ID:          id,
		Name:        strings.TrimSpace(form.Name),
		PhoneNumber: strings.TrimSpace(form.PhoneNumber),
		Address:     strings.TrimSpace(form.Address),
	})
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return Supplier{}, fmt.Errorf("%w: supplier name already exists", shared.ErrConflict)
		}
		return Supplier{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid supplier id", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}
