package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kasapos/kasapos/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id int64) (*Account, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const accountColumns = `id, name, email, password_hash, role, phone, is_active, created_at, updated_at`

// FindByEmail fetches an account by email, soft-deleted rows excluded.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`
	return r.scanAccount(r.pool.QueryRow(ctx, query, email))
}

// FindByID fetches an account by primary key, soft-deleted rows excluded.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*Account, error) {
	query := `SELECT ` + accountColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	return r.scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *PGRepository) scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.Phone, &a.IsActive, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

var _ Repository = (*PGRepository)(nil)
