package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasapos/kasapos/internal/shared"
)

type mockRepository struct {
	users  map[int64]*User
	nextID int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[int64]*User)}
}

func (m *mockRepository) List(_ context.Context) ([]User, error) {
	var result []User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockRepository) Create(_ context.Context, u User) (int64, error) {
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return 0, shared.ErrConflict
		}
	}
	m.nextID++
	u.ID = m.nextID
	m.users[u.ID] = &u
	return u.ID, nil
}

func (m *mockRepository) Update(_ context.Context, u User) error {
	if _, ok := m.users[u.ID]; !ok {
		return shared.ErrNotFound
	}
	for _, existing := range m.users {
		if existing.ID != u.ID && existing.Email == u.Email {
			return shared.ErrConflict
		}
	}
	m.users[u.ID] = &u
	return nil
}

func (m *mockRepository) Count(_ context.Context) (int, error) {
	return len(m.users), nil
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	u, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "Cashier One",
		Email:    "cashier@example.com",
		Password: "secret-password",
		Role:     "cashier",
	})

	require.NoError(t, err)
	assert.Equal(t, shared.RoleCashier, u.Role)
	assert.True(t, u.IsActive)

	stored := repo.users[u.ID]
	require.NotEmpty(t, stored.passwordHash)
	assert.NotEqual(t, "secret-password", stored.passwordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.passwordHash), []byte("secret-password")))
}

func TestCreateUserUnknownRole(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Name:     "X",
		Email:    "x@example.com",
		Password: "secret-password",
		Role:     "admin",
	})

	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := NewService(newMockRepository())

	req := CreateUserRequest{Name: "A", Email: "dup@example.com", Password: "secret-password", Role: "owner"}
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), req)
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestUpdateUserKeepsRole(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	u, err := svc.Create(context.Background(), CreateUserRequest{
		Name: "Cashier", Email: "c@example.com", Password: "secret-password", Role: "cashier",
	})
	require.NoError(t, err)

	name := "Renamed"
	inactive := false
	updated, err := svc.Update(context.Background(), u.ID, UpdateUserRequest{Name: &name, IsActive: &inactive})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, shared.RoleCashier, updated.Role)
}

func TestSeedOwnerOnlyWhenEmpty(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	require.NoError(t, svc.SeedOwner(context.Background(), "Owner", "owner@example.com", "secret-password"))
	require.Len(t, repo.users, 1)

	// A second run must not add another account.
	require.NoError(t, svc.SeedOwner(context.Background(), "Owner", "owner2@example.com", "secret-password"))
	assert.Len(t, repo.users, 1)
}
