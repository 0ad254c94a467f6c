package inventory

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasapos/kasapos/internal/shared"
)

type fakeRow struct {
	stock int
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int)) = r.stock
	return nil
}

// fakeQuerier answers the guarded UPDATE first and the probe SELECT
// second, recording each statement it sees.
type fakeQuerier struct {
	rows    []fakeRow
	queries []string
	idx     int
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	q.queries = append(q.queries, sql)
	row := q.rows[q.idx]
	q.idx++
	return row
}

func TestAdjustReturnsNewStock(t *testing.T) {
	q := &fakeQuerier{rows: []fakeRow{{stock: 7}}}

	stock, err := Adjust(context.Background(), q, 1, -3)

	require.NoError(t, err)
	assert.Equal(t, 7, stock)
}

func TestAdjustBelowFloor(t *testing.T) {
	q := &fakeQuerier{rows: []fakeRow{
		{err: pgx.ErrNoRows},
		{stock: 2},
	}}

	_, err := Adjust(context.Background(), q, 1, -5)

	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "has 2 in stock, need 5")
}

func TestAdjustUnknownProduct(t *testing.T) {
	q := &fakeQuerier{rows: []fakeRow{
		{err: pgx.ErrNoRows},
		{err: pgx.ErrNoRows},
	}}

	_, err := Adjust(context.Background(), q, 99, 10)

	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAdjustSkipsRemovedProducts(t *testing.T) {
	q := &fakeQuerier{rows: []fakeRow{{stock: 4}}}

	_, err := Adjust(context.Background(), q, 1, -1)

	require.NoError(t, err)
	require.Len(t, q.queries, 1)
	assert.Contains(t, q.queries[0], "deleted_at IS NULL")
}

func TestReverseAcceptsRemovedProducts(t *testing.T) {
	q := &fakeQuerier{rows: []fakeRow{{stock: 6}}}

	stock, err := Reverse(context.Background(), q, 1, 3)

	require.NoError(t, err)
	assert.Equal(t, 6, stock)
	require.Len(t, q.queries, 1)
	assert.NotContains(t, q.queries[0], "deleted_at")
}

func TestReverseKeepsStockFloor(t *testing.T) {
	q := &fakeQuerier{rows: []fakeRow{
		{err: pgx.ErrNoRows},
		{stock: 1},
	}}

	_, err := Reverse(context.Background(), q, 1, -4)

	require.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.NotContains(t, q.queries[1], "deleted_at")
}
