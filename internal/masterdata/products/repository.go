package products

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kasapos/kasapos/internal/platform/db"
	"github.com/kasapos/kasapos/internal/shared"
)

type Repository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id int64) (Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	Update(ctx context.Context, p Product) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const productSelect = `SELECT p.id, p.name, p.category_id, c.name, p.stock,
		p.purchase_price, p.selling_price, p.created_at, p.updated_at
	FROM products p
	JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.CategoryID, &p.CategoryName, &p.Stock,
		&p.PurchasePrice, &p.SellingPrice, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *repository) List(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, productSelect+` WHERE p.deleted_at IS NULL ORDER BY p.name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Product, error) {
	row := r.pool.QueryRow(ctx, productSelect+` WHERE p.id = $1 AND p.deleted_at IS NULL`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, shared.ErrNotFound
		}
		return Product{}, err
	}
	return p, nil
}

func (r *repository) Create(ctx context.Context, p Product) (Product, error) {
	query := `INSERT INTO products (name, category_id, stock, purchase_price, selling_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, p.Name, p.CategoryID, p.Stock,
		p.PurchasePrice, p.SellingPrice, time.Now().UTC()).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return Product{}, shared.ErrConflict
		case db.IsForeignKeyViolation(err):
			return Product{}, shared.ErrValidation
		}
		return Product{}, err
	}
	return p, nil
}

// Update never touches stock or purchase_price; those columns belong to
// the inventory engine and the purchase flow.
func (r *repository) Update(ctx context.Context, p Product) error {
	query := `UPDATE products SET name = $1, category_id = $2, selling_price = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, p.Name, p.CategoryID, p.SellingPrice, time.Now().UTC(), p.ID)
	if err != nil {
		switch {
		case db.IsUniqueViolation(err):
			return shared.ErrConflict
		case db.IsForeignKeyViolation(err):
			return shared.ErrValidation
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE products SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
