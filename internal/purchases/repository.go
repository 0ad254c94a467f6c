package purchases

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/kasapos/kasapos/internal/inventory"
	"github.com/kasapos/kasapos/internal/platform/db"
	"github.com/kasapos/kasapos/internal/shared"
)

type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	List(ctx context.Context, dr *shared.DateRange) ([]Purchase, error)
	Get(ctx context.Context, id int64) (*Purchase, error)
	Insert(ctx context.Context, p Purchase) (int64, error)
	UpdateHeader(ctx context.Context, id int64, supplierID int64, date time.Time, total decimal.Decimal) error
	SoftDelete(ctx context.Context, id int64) error
	InsertLine(ctx context.Context, l Line) (int64, error)
	DeleteLines(ctx context.Context, purchaseID int64) error
	Lines(ctx context.Context, purchaseID int64) ([]Line, error)
	AdjustStock(ctx context.Context, productID int64, delta int) (int, error)
	ReverseStock(ctx context.Context, productID int64, delta int) (int, error)
	SetPurchasePrice(ctx context.Context, productID int64, price decimal.Decimal) error
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

const purchaseSelect = `SELECT p.id, p.user_id, u.name, p.supplier_id, s.name,
		p.date, p.total, p.created_at, p.updated_at
	FROM purchases p
	JOIN users u ON u.id = p.user_id
	JOIN suppliers s ON s.id = p.supplier_id`

func scanPurchase(row pgx.Row) (Purchase, error) {
	var p Purchase
	err := row.Scan(&p.ID, &p.UserID, &p.UserName, &p.SupplierID, &p.SupplierName,
		&p.Date, &p.Total, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context, dr *shared.DateRange) ([]Purchase, error) {
	query := purchaseSelect + ` WHERE p.deleted_at IS NULL`
	var args []any
	if dr != nil {
		query += ` AND p.date >= $1 AND p.date < $2`
		args = append(args, dr.Start, dr.End)
	}
	query += ` ORDER BY p.date DESC, p.id DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*Purchase, error) {
	row := r.db.QueryRow(ctx, purchaseSelect+` WHERE p.id = $1 AND p.deleted_at IS NULL`, id)
	p, err := scanPurchase(row)
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
	p.Lines = lines
	return &p, nil
}

func (r *repository) Insert(ctx context.Context, p Purchase) (int64, error) {
	query := `INSERT INTO purchases (user_id, supplier_id, date, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, p.UserID, p.SupplierID, p.Date, p.Total, time.Now().UTC()).Scan(&id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return 0, shared.ErrValidation
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) UpdateHeader(ctx context.Context, id int64, supplierID int64, date time.Time, total decimal.Decimal) error {
	query := `UPDATE purchases SET supplier_id = $1, date = $2, total = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, supplierID, date, total, time.Now().UTC(), id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return shared.ErrValidation
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE purchases SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
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
	query := `INSERT INTO purchase_details (purchase_id, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int64
	err := r.db.QueryRow(ctx, query, l.PurchaseID, l.ProductID, l.Quantity, l.UnitPrice, l.Subtotal).Scan(&id)
	if err != nil {
		if db.IsForeignKeyViolation(err) {
			return 0, shared.ErrValidation
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) DeleteLines(ctx context.Context, purchaseID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM purchase_details WHERE purchase_id = $1`, purchaseID)
	return err
}

func (r *repository) Lines(ctx context.Context, purchaseID int64) ([]Line, error) {
	query := `SELECT d.id, d.purchase_id, d.product_id, pr.name, d.quantity, d.unit_price, d.subtotal
		FROM purchase_details d
		JOIN products pr ON pr.id = d.product_id
		WHERE d.purchase_id = $1
		ORDER BY d.id ASC`
	rows, err := r.db.Query(ctx, query, purchaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.PurchaseID, &l.ProductID, &l.ProductName,
			&l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
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

func (r *repository) SetPurchasePrice(ctx context.Context, productID int64, price decimal.Decimal) error {
	query := `UPDATE products SET purchase_price = $1, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL`
	tag, err := r.db.Exec(ctx, query, price, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
