package categories

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
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int64) (Category, error)
	Create(ctx context.Context, name string) (Category, error)
	Update(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]Category, error) {
	query := `SELECT id, name, created_at, updated_at FROM categories WHERE deleted_at IS NULL ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Category, error) {
	query := `SELECT id, name, created_at, updated_at FROM categories WHERE id = $1 AND deleted_at IS NULL`
	var c Category
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Category{}, shared.ErrNotFound
		}
		return Category{}, err
	}
	return c, nil
}

func (r *repository) Create(ctx context.Context, name string) (Category, error) {
	query := `INSERT INTO categories (name, created_at, updated_at) VALUES ($1, $2, $2) RETURNING id, created_at, updated_at`
	c := Category{Name: name}
	err := r.pool.QueryRow(ctx, query, name, time.Now().UTC()).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Category{}, shared.ErrConflict
		}
		return Category{}, err
	}
	return c, nil
}

func (r *repository) Update(ctx context.Context, id int64, name string) error {
	query := `UPDATE categories SET name = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, name, time.Now().UTC(), id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return shared.ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE categories SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
