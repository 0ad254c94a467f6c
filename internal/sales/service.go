package sales

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/kasapos/kasapos/internal/shared"
)

const profitCacheTTL = time.Minute

var hundred = decimal.NewFromInt(100)

type Service struct {
	repo   Repository
	cache  *redis.Client
	logger *slog.Logger
}

// NewService builds the sales service. cache may be nil, which
// disables profit report caching.
func NewService(logger *slog.Logger, repo Repository, cache *redis.Client) *Service {
	return &Service{repo: repo, cache: cache, logger: logger}
}

// Create records a checkout. Prices come from the product rows at the
// moment of sale, never from the request, and every stock decrement
// rides the same transaction as the document write.
func (s *Service) Create(ctx context.Context, identity *shared.Identity, form SaleForm) (*Sale, error) {
	if err := validateLines(form.Lines); err != nil {
		return nil, err
	}
	date := time.Now().UTC()
	if form.Date != nil {
		date = *form.Date
	}

	var id int64
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		lines, total, err := buildLines(ctx, repo, form.Lines)
		if err != nil {
			return err
		}
		id, err = repo.Insert(ctx, Sale{UserID: identity.UserID, Date: date, Total: total})
		if err != nil {
			return err
		}
		for _, l := range lines {
			l.SaleID = id
			if _, err := repo.InsertLine(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Void restores the sold quantities and soft deletes the sale.
func (s *Service) Void(ctx context.Context, id int64) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		lines, err := repo.Lines(ctx, id)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if _, err := repo.ReverseStock(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}
		return repo.SoftDelete(ctx, id)
	})
}

// Edit replaces the sale's lines, restoring the old quantities before
// taking the new ones. Prices are re-snapshotted at edit time.
func (s *Service) Edit(ctx context.Context, id int64, form SaleForm) (*Sale, error) {
	if err := validateLines(form.Lines); err != nil {
		return nil, err
	}
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		current, err := repo.Get(ctx, id)
		if err != nil {
			return err
		}
		for _, l := range current.Lines {
			if _, err := repo.ReverseStock(ctx, l.ProductID, l.Quantity); err != nil {
				return err
			}
		}
		if err := repo.DeleteLines(ctx, id); err != nil {
			return err
		}

		lines, total, err := buildLines(ctx, repo, form.Lines)
		if err != nil {
			return err
		}
		date := current.Date
		if form.Date != nil {
			date = *form.Date
		}
		if err := repo.UpdateHeader(ctx, id, date, total); err != nil {
			return err
		}
		for _, l := range lines {
			l.SaleID = id
			if _, err := repo.InsertLine(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, startDate, endDate string) ([]Sale, error) {
	dr, err := optionalRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, dr, 0)
}

// ListByCashier returns the sales recorded by one user.
func (s *Service) ListByCashier(ctx context.Context, userID int64, startDate, endDate string) ([]Sale, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", shared.ErrValidation)
	}
	dr, err := optionalRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, dr, userID)
}

func (s *Service) Get(ctx context.Context, id int64) (*Sale, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid sale id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Report lists sales in the range with full lines and a grand total.
func (s *Service) Report(ctx context.Context, startDate, endDate string) (*Report, error) {
	dr, err := shared.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	sales, err := s.repo.List(ctx, &dr, 0)
	if err != nil {
		return nil, err
	}

	grand := decimal.Zero
	for i := range sales {
		lines, err := s.repo.Lines(ctx, sales[i].ID)
		if err != nil {
			return nil, err
		}
		sales[i].Lines = lines
		grand = grand.Add(sales[i].Total)
	}
	return &Report{StartDate: startDate, EndDate: endDate, Sales: sales, GrandTotal: grand}, nil
}

// ProfitByDate aggregates revenue, cost and margin per calendar day.
func (s *Service) ProfitByDate(ctx context.Context, startDate, endDate string) (*ProfitReport, error) {
	return s.profitReport(ctx, "profit:date", startDate, endDate, s.repo.ProfitByDate)
}

// ProfitByProduct aggregates revenue, cost and margin per product,
// most profitable first.
func (s *Service) ProfitByProduct(ctx context.Context, startDate, endDate string) (*ProfitReport, error) {
	rep, err := s.profitReport(ctx, "profit:product", startDate, endDate, s.repo.ProfitByProduct)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rep.Rows, func(i, j int) bool {
		return rep.Rows[i].Profit.GreaterThan(rep.Rows[j].Profit)
	})
	return rep, nil
}

func (s *Service) profitReport(ctx context.Context, kind, startDate, endDate string,
	query func(context.Context, shared.DateRange) ([]ProfitRow, error)) (*ProfitReport, error) {

	dr, err := shared.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("report:%s:%s:%s", kind, startDate, endDate)
	if cached := s.fromCache(ctx, key); cached != nil {
		return cached, nil
	}

	rows, err := query(ctx, dr)
	if err != nil {
		return nil, err
	}

	rep := &ProfitReport{
		StartDate:   startDate,
		EndDate:     endDate,
		TotalSale:   decimal.Zero,
		TotalCost:   decimal.Zero,
		TotalProfit: decimal.Zero,
	}
	for _, row := range rows {
		row.Profit = row.TotalSale.Sub(row.TotalCost)
		row.Margin = margin(row.Profit, row.TotalSale)
		rep.Rows = append(rep.Rows, row)
		rep.TotalSale = rep.TotalSale.Add(row.TotalSale)
		rep.TotalCost = rep.TotalCost.Add(row.TotalCost)
		rep.TotalProfit = rep.TotalProfit.Add(row.Profit)
	}

	s.toCache(ctx, key, rep)
	return rep, nil
}

func (s *Service) fromCache(ctx context.Context, key string) *ProfitReport {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("profit cache read", slog.Any("error", err))
		}
		return nil
	}
	var rep ProfitReport
	if err := json.Unmarshal(raw, &rep); err != nil {
		return nil
	}
	return &rep
}

func (s *Service) toCache(ctx context.Context, key string, rep *ProfitReport) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(rep)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, profitCacheTTL).Err(); err != nil {
		s.logger.Warn("profit cache write", slog.Any("error", err))
	}
}

func buildLines(ctx context.Context, repo Repository, forms []LineForm) ([]Line, decimal.Decimal, error) {
	var lines []Line
	total := decimal.Zero
	for _, lf := range forms {
		snap, err := repo.ProductPrices(ctx, lf.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, decimal.Zero, fmt.Errorf("%w: product %d", shared.ErrNotFound, lf.ProductID)
			}
			return nil, decimal.Zero, err
		}
		if _, err := repo.AdjustStock(ctx, lf.ProductID, -lf.Quantity); err != nil {
			return nil, decimal.Zero, err
		}
		qty := decimal.NewFromInt(int64(lf.Quantity))
		line := Line{
			ProductID: lf.ProductID,
			Quantity:  lf.Quantity,
			UnitPrice: snap.SellingPrice,
			UnitCost:  snap.PurchasePrice,
			Subtotal:  snap.SellingPrice.Mul(qty),
		}
		lines = append(lines, line)
		total = total.Add(line.Subtotal)
	}
	return lines, total, nil
}

// margin is profit over revenue as a percentage rounded to two
// places. Zero revenue yields zero, not a division error.
func margin(profit, revenue decimal.Decimal) decimal.Decimal {
	if revenue.IsZero() {
		return decimal.Zero
	}
	return profit.Div(revenue).Mul(hundred).Round(2)
}

func validateLines(lines []LineForm) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: at least one sale detail is required", shared.ErrValidation)
	}
	for _, l := range lines {
		if l.ProductID <= 0 {
			return fmt.Errorf("%w: invalid product id", shared.ErrValidation)
		}
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive", shared.ErrValidation)
		}
	}
	return nil
}

func optionalRange(startDate, endDate string) (*shared.DateRange, error) {
	if startDate == "" && endDate == "" {
		return nil, nil
	}
	dr, err := shared.ParseDateRange(startDate, endDate)
	if err != nil {
		return nil, err
	}
	return &dr, nil
}
