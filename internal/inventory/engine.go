// Package inventory owns every stock mutation. Purchases and sales go
// through Adjust, voids and edits through Reverse, always inside the
// caller's transaction, so the non-negative stock floor holds under
// concurrent writers.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/kasapos/kasapos/internal/shared"
)

// Querier is the subset of pgx.Tx the engine needs. Passing the
// caller's transaction keeps the adjustment atomic with the document
// write that caused it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Adjust applies delta to the product's stock and returns the new
// level. The floor check happens in the UPDATE predicate itself, so a
// concurrent adjustment can never drive stock below zero. Only active
// catalog rows qualify.
func Adjust(ctx context.Context, q Querier, productID int64, delta int) (int, error) {
	return adjust(ctx, q, productID, delta, true)
}

// Reverse compensates an earlier adjustment when its document is
// voided or edited. It accepts soft-deleted products, so a void still
// restores stock after the product left the catalog. The floor still
// holds: reversing a receipt whose goods were since sold fails.
func Reverse(ctx context.Context, q Querier, productID int64, delta int) (int, error) {
	return adjust(ctx, q, productID, delta, false)
}

func adjust(ctx context.Context, q Querier, productID int64, delta int, activeOnly bool) (int, error) {
	filter := ""
	if activeOnly {
		filter = ` AND deleted_at IS NULL`
	}
	query := `UPDATE products SET stock = stock + $1, updated_at = now()
		WHERE id = $2 AND stock + $1 >= 0` + filter + `
		RETURNING stock`

	var stock int
	err := q.QueryRow(ctx, query, delta, productID).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// The guarded UPDATE matched nothing: either the product is gone
	// or the delta would breach the floor.
	probe := `SELECT stock FROM products WHERE id = $1` + filter
	var current int
	if err := q.QueryRow(ctx, probe, productID).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: product %d", shared.ErrNotFound, productID)
		}
		return 0, err
	}
	return 0, fmt.Errorf("%w: product %d has %d in stock, need %d", shared.ErrInsufficientStock, productID, current, -delta)
}
