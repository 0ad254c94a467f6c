package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kasapos/kasapos/internal/platform/db"
	"github.com/kasapos/kasapos/internal/shared"
)

// Repository defines persistence operations for accounts.
type Repository interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, u User) (int64, error)
	Update(ctx context.Context, u User) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const userColumns = `id, name, email, password_hash, role, phone, is_active, created_at, updated_at`

func (r *repository) List(ctx context.Context) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	return result, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`
	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *repository) Create(ctx context.Context, u User) (int64, error) {
	query := `INSERT INTO users (name, email, password_hash, role, phone, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7) RETURNING id`
	var id int64
	err := r.pool.QueryRow(ctx, query,
		u.Name, u.Email, u.passwordHash, u.Role, u.Phone, u.IsActive, time.Now().UTC(),
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return 0, shared.ErrConflict
		}
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, u User) error {
	query := `UPDATE users SET name = $1, email = $2, password_hash = $3, phone = $4, is_active = $5, updated_at = $6
		WHERE id = $7 AND deleted_at IS NULL`
	tag, err := r.pool.Exec(ctx, query,
		u.Name, u.Email, u.passwordHash, u.Phone, u.IsActive, time.Now().UTC(), u.ID,
	)
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

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`).Scan(&total)
	return total, err
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.passwordHash, &u.Role, &u.Phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
