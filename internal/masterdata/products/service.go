package products

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

func (s *Service) List(ctx context.Context) ([]Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, form ProductForm) (Product, error) {
	if err := validatePrices(form); err != nil {
		return Product{}, err
	}
	p, err := s.repo.Create(ctx, Product{
		Name:          strings.TrimSpace(form.Name),
		CategoryID:    form.CategoryID,
		Stock:         form.Stock,
		PurchasePrice: form.PurchasePrice,
		SellingPrice:  form.SellingPrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrConflict):
			return Product{}, fmt.Errorf("%w: product name already exists", shared.ErrConflict)
		case errors.Is(err, shared.ErrValidation):
			return Product{}, fmt.Errorf("%w: category does not exist", shared.ErrValidation)
		}
		return Product{}, err
	}
	return s.repo.Get(ctx, p.ID)
}

func (s *Service) Update(ctx context.Context, id int64, form ProductForm) (Product, error) {
	if err := validatePrices(form); err != nil {
		return Product{}, err
	}
	err := s.repo.Update(ctx, Product{
		ID:           id,
		Name:         strings.TrimSpace(form.Name),
		CategoryID:   form.CategoryID,
		SellingPrice: form.SellingPrice,
	})
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrConflict):
			return Product{}, fmt.Errorf("%w: product name already exists", shared.ErrConflict)
		case errors.Is(err, shared.ErrValidation):
			return Product{}, fmt.Errorf("%w: category does not exist", shared.ErrValidation)
		}
		return Product{}, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: invalid product id", shared.ErrValidation)
	}
	return s.repo.Delete(ctx, id)
}

func validatePrices(form ProductForm) error {
	if form.PurchasePrice.IsNegative() {
		return fmt.Errorf("%w: purchase price must not be negative", shared.ErrValidation)
	}
	if form.SellingPrice.IsNegative() {
		return fmt.Errorf("%w: selling price must not be negative", shared.ErrValidation)
	}
	return nil
}
