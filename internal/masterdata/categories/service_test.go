package categories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kasapos/kasapos/internal/shared"
)

type mockRepository struct {
	categories map[int64]*Category
	nextID     int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{categories: make(map[int64]*Category)}
}

func (m *mockRepository) List(_ context.Context) ([]Category, error) {
	var result []Category
	for _, c := range m.categories {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return Category{}, shared.ErrNotFound
	}
	return *c, nil
}

func (m *mockRepository) Create(_ context.Context, name string) (Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return Category{}, shared.ErrConflict
		}
	}
	m.nextID++
	c := Category{ID: m.nextID, Name: name}
	m.categories[c.ID] = &c
	return c, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, name string) error {
	c, ok := m.categories[id]
	if !ok {
		return shared.ErrNotFound
	}
	for _, other := range m.categories {
		if other.ID != id && other.Name == name {
			return shared.ErrConflict
		}
	}
	c.Name = name
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.categories, id)
	return nil
}

func TestCreateCategoryTrimsName(t *testing.T) {
	svc := NewService(newMockRepository())

	c, err := svc.Create(context.Background(), CategoryForm{Name: "  Beverages  "})

	require.NoError(t, err)
	assert.Equal(t, "Beverages", c.Name)
}

func TestCreateCategoryEmptyName(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), CategoryForm{Name: "   "})

	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateCategoryDuplicate(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), CategoryForm{Name: "Snacks"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CategoryForm{Name: "Snacks"})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestDeleteCategoryMissing(t *testing.T) {
	svc := NewService(newMockRepository())

	err := svc.Delete(context.Background(), 42)

	require.ErrorIs(t, err, shared.ErrNotFound)
}
