package sales

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasapos/kasapos/internal/shared"
)

type mockProduct struct {
	stock         int
	sellingPrice  decimal.Decimal
	purchasePrice decimal.Decimal
	deleted       bool
}

// mockRepository keeps products and sales in memory.
type mockRepository struct {
	products    map[int64]*mockProduct
	sales       map[int64]*Sale
	lines       map[int64][]Line
	profitRows  []ProfitRow
	profitCalls int
	nextID      int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		products: make(map[int64]*mockProduct),
		sales:    make(map[int64]*Sale),
		lines:    make(map[int64][]Line),
	}
}

// WithTx restores the in-memory state when fn fails, mirroring the
// rollback the real repository gets from the database.
func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	products := make(map[int64]*mockProduct, len(m.products))
	for id, p := range m.products {
		cp := *p
		products[id] = &cp
	}
	sales := make(map[int64]*Sale, len(m.sales))
	for id, s := range m.sales {
		cp := *s
		sales[id] = &cp
	}
	lines := make(map[int64][]Line, len(m.lines))
	for id, ls := range m.lines {
		lines[id] = append([]Line(nil), ls...)
	}
	nextID := m.nextID

	if err := fn(ctx, m); err != nil {
		m.products, m.sales, m.lines, m.nextID = products, sales, lines, nextID
		return err
	}
	return nil
}

func (m *mockRepository) List(_ context.Context, _ *shared.DateRange, userID int64) ([]Sale, error) {
	var result []Sale
	for _, s := range m.sales {
		if userID > 0 && s.UserID != userID {
			continue
		}
		result = append(result, *s)
	}
	return result, nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Sale, error) {
	s, ok := m.sales[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *s
	cp.Lines = m.lines[id]
	return &cp, nil
}

func (m *mockRepository) Insert(_ context.Context, s Sale) (int64, error) {
	m.nextID++
	s.ID = m.nextID
	m.sales[s.ID] = &s
	return s.ID, nil
}

func (m *mockRepository) UpdateHeader(_ context.Context, id int64, date time.Time, total decimal.Decimal) error {
	s, ok := m.sales[id]
	if !ok {
		return shared.ErrNotFound
	}
	s.Date = date
	s.Total = total
	return nil
}

func (m *mockRepository) SoftDelete(_ context.Context, id int64) error {
	if _, ok := m.sales[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.sales, id)
	delete(m.lines, id)
	return nil
}

func (m *mockRepository) InsertLine(_ context.Context, l Line) (int64, error) {
	m.nextID++
	l.ID = m.nextID
	m.lines[l.SaleID] = append(m.lines[l.SaleID], l)
	return l.ID, nil
}

func (m *mockRepository) DeleteLines(_ context.Context, saleID int64) error {
	delete(m.lines, saleID)
	return nil
}

func (m *mockRepository) Lines(_ context.Context, saleID int64) ([]Line, error) {
	return m.lines[saleID], nil
}

func (m *mockRepository) AdjustStock(_ context.Context, productID int64, delta int) (int, error) {
	p, ok := m.products[productID]
	if !ok || p.deleted {
		return 0, shared.ErrNotFound
	}
	return m.move(p, delta)
}

func (m *mockRepository) ReverseStock(_ context.Context, productID int64, delta int) (int, error) {
	p, ok := m.products[productID]
	if !ok {
		return 0, shared.ErrNotFound
	}
	return m.move(p, delta)
}

func (m *mockRepository) move(p *mockProduct, delta int) (int, error) {
	if p.stock+delta < 0 {
		return 0, shared.ErrInsufficientStock
	}
	p.stock += delta
	return p.stock, nil
}

func (m *mockRepository) ProductPrices(_ context.Context, productID int64) (PriceSnapshot, error) {
	p, ok := m.products[productID]
	if !ok || p.deleted {
		return PriceSnapshot{}, shared.ErrNotFound
	}
	return PriceSnapshot{SellingPrice: p.sellingPrice, PurchasePrice: p.purchasePrice}, nil
}

func (m *mockRepository) ProfitByDate(_ context.Context, _ shared.DateRange) ([]ProfitRow, error) {
	m.profitCalls++
	return m.profitRows, nil
}

func (m *mockRepository) ProfitByProduct(_ context.Context, _ shared.DateRange) ([]ProfitRow, error) {
	m.profitCalls++
	return m.profitRows, nil
}

var cashier = &shared.Identity{UserID: 2, Name: "Cashier", Role: shared.RoleCashier}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func newTestService(repo Repository, cache *redis.Client) *Service {
	return NewService(slog.New(slog.DiscardHandler), repo, cache)
}

func TestCreateSaleDerivesPrices(t *testing.T) {
	repo := newMockRepository()
	repo.products[10] = &mockProduct{stock: 8, sellingPrice: price(2500), purchasePrice: price(1800)}
	svc := newTestService(repo, nil)

	sale, err := svc.Create(context.Background(), cashier, SaleForm{
		Lines: []LineForm{{ProductID: 10, Quantity: 3}},
	})

	require.NoError(t, err)
	assert.Equal(t, 5, repo.products[10].stock)
	require.Len(t, sale.Lines, 1)
	assert.True(t, sale.Lines[0].UnitPrice.Equal(price(2500)))
	assert.True(t, sale.Lines[0].UnitCost.Equal(price(1800)))
	assert.True(t, sale.Lines[0].Subtotal.Equal(price(7500)))
	assert.True(t, sale.Total.Equal(price(7500)))
	assert.Equal(t, int64(2), sale.UserID)
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	repo := newMockRepository()
	repo.products[10] = &mockProduct{stock: 2, sellingPrice: price(100), purchasePrice: price(60)}
	svc := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), cashier, SaleForm{
		Lines: []LineForm{{ProductID: 10, Quantity: 5}},
	})

	require.ErrorIs(t, err, shared.ErrInsufficientStock)
}

func TestVoidSaleRestoresStock(t *testing.T) {
	repo := newMockRepository()
	repo.products[10] = &mockProduct{stock: 8, sellingPrice: price(100), purchasePrice: price(60)}
	svc := newTestService(repo, nil)

	sale, err := svc.Create(context.Background(), cashier, SaleForm{
		Lines: []LineForm{{ProductID: 10, Quantity: 3}},
	})
	require.NoError(t, err)
	require.Equal(t, 5, repo.products[10].stock)

	require.NoError(t, svc.Void(context.Background(), sale.ID))

	assert.Equal(t, 8, repo.products[10].stock)
	_, err = svc.Get(context.Background(), sale.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestCreateSaleRollsBackOnLineFailure(t *testing.T) {
	repo := newMockRepository()
	repo.products[10] = &mockProduct{stock: 8, sellingPrice: price(2500), purchasePrice: price(1800)}
	repo.products[11] = &mockProduct{stock: 1, sellingPrice: price(900), purchasePrice: price(600)}
	svc := newTestService(repo, nil)

	_, err := svc.Create(context.Background(), cashier, SaleForm{
		Lines: []LineForm{
			{ProductID: 10, Quantity: 3},
			{ProductID: 11, Quantity: 5},
			{ProductID: 99, Quantity: 1},
		},
	})

	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Equal(t, 8, repo.products[10].stock, "first line's decrement must not survive")
	assert.Equal(t, 1, repo.products[11].stock)
	assert.Empty(t, repo.sales, "no header may persist")
	assert.Empty(t, repo.lines, "no lines may persist")
}

func TestVoidSaleAfterProductRemoved(t *testing.T) {
	repo := newMockRepository()
	repo.products[10] = &mockProduct{stock: 8, sellingPrice: price(100), purchasePrice: price(60)}
	svc := newTestService(repo, nil)

	sale, err := svc.Create(context.Background(), cashier, SaleForm{
		Lines: []LineForm{{ProductID: 10, Quantity: 3}},
	})
	require.NoError(t, err)

	// The product left the catalog between checkout and void.
	repo.products[10].deleted = true

	require.NoError(t, svc.Void(context.Background(), sale.ID))
	assert.Equal(t, 8, repo.products[10].stock)
}

func TestEditSaleResnapshotsPrices(t *testing.T) {
	repo := newMockRepository()
	repo.products[10] = &mockProduct{stock: 10, sellingPrice: price(100), purchasePrice: price(60)}
	svc := newTestService(repo, nil)

	sale, err := svc.Create(context.Background(), cashier, SaleForm{
		Lines: []LineForm{{ProductID: 10, Quantity: 4}},
	})
	require.NoError(t, err)

	// The product was repriced between checkout and correction.
	repo.products[10].sellingPrice = price(120)

	updated, err := svc.Edit(context.Background(), sale.ID, SaleForm{
		Lines: []LineForm{{ProductID: 10, Quantity: 2}},
	})

	require.NoError(t, err)
	assert.Equal(t, 8, repo.products[10].stock)
	require.Len(t, updated.Lines, 1)
	assert.True(t, updated.Lines[0].UnitPrice.Equal(price(120)))
	assert.True(t, updated.Total.Equal(price(240)))
}

func TestProfitReportMargins(t *testing.T) {
	repo := newMockRepository()
	repo.profitRows = []ProfitRow{
		{Date: "2026-03-01", TotalSale: price(10000), TotalCost: price(7500)},
		{Date: "2026-03-02", TotalSale: decimal.Zero, TotalCost: decimal.Zero},
		{Date: "2026-03-03", TotalSale: price(3000), TotalCost: price(2000)},
	}
	svc := newTestService(repo, nil)

	rep, err := svc.ProfitByDate(context.Background(), "2026-03-01", "2026-03-03")

	require.NoError(t, err)
	require.Len(t, rep.Rows, 3)
	assert.True(t, rep.Rows[0].Profit.Equal(price(2500)))
	assert.True(t, rep.Rows[0].Margin.Equal(price(25)), "margin %s", rep.Rows[0].Margin)
	assert.True(t, rep.Rows[1].Margin.IsZero(), "zero revenue must not divide")
	assert.True(t, rep.Rows[2].Margin.Equal(decimal.NewFromFloat(33.33)), "margin %s", rep.Rows[2].Margin)
	assert.True(t, rep.TotalSale.Equal(price(13000)))
	assert.True(t, rep.TotalProfit.Equal(price(3500)))
}

func TestProfitReportCached(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := newMockRepository()
	repo.profitRows = []ProfitRow{{Date: "2026-03-01", TotalSale: price(100), TotalCost: price(40)}}
	svc := newTestService(repo, cache)

	first, err := svc.ProfitByDate(context.Background(), "2026-03-01", "2026-03-01")
	require.NoError(t, err)
	second, err := svc.ProfitByDate(context.Background(), "2026-03-01", "2026-03-01")
	require.NoError(t, err)

	assert.Equal(t, 1, repo.profitCalls, "second read must come from cache")
	assert.True(t, first.TotalProfit.Equal(second.TotalProfit))

	mr.FastForward(2 * time.Minute)
	_, err = svc.ProfitByDate(context.Background(), "2026-03-01", "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.profitCalls, "expired cache must fall through")
}

func TestValidateSaleLines(t *testing.T) {
	svc := newTestService(newMockRepository(), nil)

	_, err := svc.Create(context.Background(), cashier, SaleForm{})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.Create(context.Background(), cashier, SaleForm{
		Lines: []LineForm{{ProductID: 1, Quantity: 0}},
	})
	require.ErrorIs(t, err, shared.ErrValidation)
}
