package sales

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kasapos/kasapos/internal/inventory"
	"github.com/kasapos/kasapos/internal/platform/db"
	"github.com/kasapos/kasapos/internal/shared"
)

// PriceSnapshot carries a product's current prices into a sale line.
type PriceSnapshot struct {
	SellingPrice  decimal.Decimal
	PurchasePrice decimal.Decimal
}

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, dr *shared.DateRange, userID int64) ([]Sale, error)
	Get(ctx context.Context, id int64) (*Sale, error)
	Insert(ctx context.Context, s Sale) (int64, error)
	UpdateHeader(ctx context.Context, id int64, date time.Time, total decimal.Decimal) error
	SoftDelete(ctx context.Context, id int64) error
	InsertLine(ctx context.Context, l Line) (int64, error)
	DeleteLines(ctx context.Context, saleID int64) error
	Lines(ctx context.Context, saleID int64) ([]Line, error)
	AdjustStock(ctx context.Context, productID int64, delta int) (int, error)
	ReverseStock(ctx context.Context, productID int64, delta int) (int, error)
	ProductPrices(ctx context.Context, productID int64) (PriceSnapshot, error)
	ProfitByDate(ctx context.Context, dr shared.DateRange) ([]ProfitRow, error)
	ProfitByProduct(ctx context.Context, dr shared.DateRange) ([]ProfitRow, error)
}

type dbtx interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const saleSelect = `SELECT s.id, s.user_id, u.name, s.date, s.total, s.created_at, s.updated_at
	FROM sales s
	JOIN users u ON u.id = s.user_id`

func scanSale(row pgx.Row) (Sale, error) {
	var s Sale
	err := row.Scan(&s.ID, &s.UserID, &s.UserName, &s.Date, &s.Total, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *repository) List(ctx context.Context, dr *shared.DateRange, userID int64) ([]Sale, error) {
	query := saleSelect + ` WHERE s.deleted_at IS NULL`
	var args []any
	idx := 1
	if dr != nil {
		query += ` AND s.date >= $1 AND s.date < $2`
		args = append(args, dr.Start, dr.End)
		idx = 3
	}
	if userID > 0 {
		query += ` AND s.user_id = $` + strconv.Itoa(idx)
		args = append(args, userID)
	}
	query += ` ORDER BY s.date DESC, s.id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Sale, error) {
	row := r.db.QueryRow(ctx, saleSelect+` WHERE s.id = $1 AND s.deleted_at IS NULL`, id)
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	lines, err := r.Lines(ctx, id)
	if err != nil {
		return nil, err
	}
	s.Lines = lines
	return &s, nil
}

func (r *repository) Insert(ctx context.Context, s Sale) (int64, error) {
	query := `INSERT INTO sales (user_id, date, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, s.UserID, s.Date, s.Total, time.Now().UTC()).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateHeader(ctx context.Context, id int64, date time.Time, total decimal.Decimal) error {
	query := `UPDATE sales SET date = $1, total = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, date, total, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE sales SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) InsertLine(ctx context.Context, l Line) (int64, error) {
	query := `INSERT INTO sale_details (sale_id, product_id, quantity, unit_price, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.UnitCost, l.Subtotal).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) DeleteLines(ctx context.Context, saleID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM sale_details WHERE sale_id = $1`, saleID)
	return err
}

func (r *repository) Lines(ctx context.Context, saleID int64) ([]Line, error) {
	query := `SELECT d.id, d.sale_id, d.product_id, pr.name, d.quantity, d.unit_price, d.unit_cost, d.subtotal
		FROM sale_details d
		JOIN products pr ON pr.id = d.product_id
		WHERE d.sale_id = $1
		ORDER BY d.id ASC`
	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPrice, &l.UnitCost, &l.Subtotal); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *repository) AdjustStock(ctx context.Context, productID int64, delta int) (int, error) {
	return inventory.Adjust(ctx, r.db, productID, delta)
}

func (r *repository) ReverseStock(ctx context.Context, productID int64, delta int) (int, error) {
	return inventory.Reverse(ctx, r.db, productID, delta)
}

func (r *repository) ProductPrices(ctx context.Context, productID int64) (PriceSnapshot, error) {
	query := `SELECT selling_price, purchase_price FROM products
		WHERE id = $1 AND deleted_at IS NULL`
	var snap PriceSnapshot
	err := r.db.QueryRow(ctx, query, productID).Scan(&snap.SellingPrice, &snap.PurchasePrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PriceSnapshot{}, shared.ErrNotFound
		}
		return PriceSnapshot{}, err
	}
	return snap, nil
}

func (r *repository) ProfitByDate(ctx context.Context, dr shared.DateRange) ([]ProfitRow, error) {
	query := `SELECT to_char(s.date, 'YYYY-MM-DD') AS day,
			COALESCE(SUM(d.subtotal), 0),
			COALESCE(SUM(d.unit_cost * d.quantity), 0)
		FROM sales s
		JOIN sale_details d ON d.sale_id = s.id
		WHERE s.deleted_at IS NULL AND s.date >= $1 AND s.date < $2
		GROUP BY day
		ORDER BY day ASC`
	rows, err := r.db.Query(ctx, query, dr.Start, dr.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ProfitRow
	for rows.Next() {
		var row ProfitRow
		if err := rows.Scan(&row.Date, &row.TotalSale, &row.TotalCost); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *repository) ProfitByProduct(ctx context.Context, dr shared.DateRange) ([]ProfitRow, error) {
	query := `SELECT d.product_id, pr.name,
			COALESCE(SUM(d.quantity), 0),
			COALESCE(SUM(d.subtotal), 0),
			COALESCE(SUM(d.unit_cost * d.quantity), 0)
		FROM sales s
		JOIN sale_details d ON d.sale_id = s.id
		JOIN products pr ON pr.id = d.product_id
		WHERE s.deleted_at IS NULL AND s.date >= $1 AND s.date < $2
		GROUP BY d.product_id, pr.name
		ORDER BY pr.name ASC`
	rows, err := r.db.Query(ctx, query, dr.Start, dr.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ProfitRow
	for rows.Next() {
		var row ProfitRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.QtySold, &row.TotalSale, &row.TotalCost); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
