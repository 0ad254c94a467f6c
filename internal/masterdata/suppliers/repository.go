package suppliers

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
	List(ctx context.Context) ([]Supplier, error)
	Get(ctx context.Context, id int64) (Supplier, error)
	Create(ctx context.Context, s Supplier) (Supplier, error)
	Update(ctx context.Context, s Supplier) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const supplierColumns = `id, name, phone_number, address, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE deleted_at IS NULL ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Supplier
	for rows.Next() {
		var s Supplier
		if err := rows.Scan(&s.ID, &s.Name, &s.PhoneNumber, &s.Address, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (Supplier, error) {
	query := `SELECT ` + supplierColumns + ` FROM suppliers WHERE id = $1 AND deleted_at IS NULL`
	var s Supplier
	err := r.pool.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name, &s.PhoneNumber, &s.Address, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, shared.ErrNotFound
		}
		return Supplier{}, err
	}
	return s, nil
}

func (r *repository) Create(ctx context.Context, s Supplier) (Supplier, error) {
	query := `INSERT INTO suppliers (name, phone_number, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4) RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query, s.Name, s.PhoneNumber, s.Address, time.Now().UTC()).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Supplier{}, shared.ErrConflict
		}
		return Supplier{}, err
	}
	return s, nil
}

func (r *repository) Update(ctx context.Context, s Supplier) error {
	query := `UPDATE suppliers SET name = $1, phone_number = $2, address = $3, updated_at = $4
		WHERE id = $5 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, s.Name, s.PhoneNumber, s.Address, time.Now().UTC(), s.ID)
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
	query := `UPDATE suppliers SET deleted_at = $1 WHERE id = $2 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
