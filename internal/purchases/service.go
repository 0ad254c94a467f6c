package purchases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kasapos/kasapos/internal/shared"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create records a goods receipt. Stock increments, line snapshots and
// purchase price updates commit or roll back as one unit.
func (s *Service) Create(ctx context.Context, identity *shared.Identity, form PurchaseForm) (*Purchase, error) {
	if err := validateLines(form.Lines); err != nil {
		return nil, err
	}
	date := time.Now().UTC()
	if form.Date != nil {
		date = *form.Date
	}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var err error
		id, err = repo.Insert(ctx, Purchase{
			UserID:     identity.UserID,
			SupplierID: form.SupplierID,
			Date:       date,
			Total:      linesTotal(form.Lines),
		})
		if err != nil {
			if errors.Is(err, shared.ErrValidation) {
				return fmt.Errorf("%w: supplier does not exist", shared.ErrValidation)
			}
			return err
		}
		return s.applyLines(ctx, repo, id, form.Lines)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Void reverses the receipt's stock effect and soft deletes it. The
// reversal fails when the received goods have already been sold.
func (s *Service) Void(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		lines, err := repo.Lines(ctx, id)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if _, err := repo.ReverseStock(ctx, l.ProductID, -l.Quantity); err != nil {
				return err
			}
		}
		return repo.SoftDelete(ctx, id)
	})
}

// Edit replaces the receipt's lines. The old stock effect is reversed
// before the new one is applied, all inside one transaction.
func (s *Service) Edit(ctx context.Context, id int64, form PurchaseForm) (*Purchase, error) {
	if err := validateLines(form.Lines); err != nil {
		return nil, err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		for _, l := range current.Lines {
			if _, err := repo.ReverseStock(ctx, l.ProductID, -l.Quantity); err != nil {
				return err
			}
		}
		if err := repo.DeleteLines(ctx, id); err != nil {
			return err
		}

		date := current.Date
		if form.Date != nil {
			date = *form.Date
		}
		if err := repo.UpdateHeader(ctx, id, form.SupplierID, date, linesTotal(form.Lines)); err != nil {
			if errors.Is(err, shared.ErrValidation) {
				return fmt.Errorf("%w: supplier does not exist", shared.ErrValidation)
			}
			return err
		}
		return s.applyLines(ctx, repo, id, form.Lines)
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, startDate, endDate string) ([]Purchase, error) {
	var dr *shared.DateRange
	if startDate != "" || endDate != "" {
		parsed, err := shared.ParseDateRange(startDate, endDate)
		if err != nil {
			return nil, err
		}
		dr = &parsed
	}
	return s.repo.List(ctx, dr)
}

func (s *Service) Get(ctx context.Context, id int64) (*Purchase, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid purchase id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Report lists receipts in the range with full lines and a grand total.
func (s *Service) Report(ctx context.Context, startDate, endDate string) (*Report, error) {
	dr, err := shared.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	purchases, err := s.repo.List(ctx, &dr)
	if err != nil {
		return nil, err
	}

	grand := decimal.Zero
	for i := range purchases {
		lines, err := s.repo.Lines(ctx, purchases[i].ID)
		if err != nil {
			return nil, err
		}
		purchases[i].Lines = lines
		grand = grand.Add(purchases[i].Total)
	}
	return &Report{
		StartDate:  startDate,
		EndDate:    endDate,
		Purchases:  purchases,
		GrandTotal: grand,
	}, nil
}

func (s *Service) applyLines(ctx context.Context, repo Repository, purchaseID int64, lines []LineForm) error {
	for _, lf := range lines {
		if _, err := repo.AdjustStock(ctx, lf.ProductID, lf.Quantity); err != nil {
			return err
		}
		line := Line{
			PurchaseID: purchaseID,
			ProductID:  lf.ProductID,
			Quantity:   lf.Quantity,
			UnitPrice:  lf.UnitPrice,
			Subtotal:   lf.UnitPrice.Mul(decimal.NewFromInt(int64(lf.Quantity))),
		}
		if _, err := repo.InsertLine(ctx, line); err != nil {
			if errors.Is(err, shared.ErrValidation) {
				return fmt.Errorf("%w: product %d does not exist", shared.ErrValidation, lf.ProductID)
			}
			return err
		}
		if err := repo.SetPurchasePrice(ctx, lf.ProductID, lf.UnitPrice); err != nil {
			return err
		}
	}
	return nil
}

func validateLines(lines []LineForm) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: at least one purchase detail is required", shared.ErrValidation)
	}
	for _, l := range lines {
		if l.ProductID <= 0 {
			return fmt.Errorf("%w: invalid product id", shared.ErrValidation)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
		}
		if l.UnitPrice.IsNegative() {
			return fmt.Errorf("%w: unit price must not be negative", shared.ErrValidation)
		}
	}
	return nil
}

func linesTotal(lines []LineForm) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
