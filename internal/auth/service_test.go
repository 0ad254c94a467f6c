package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kasapos/kasapos/internal/shared"
)

type mockAccounts struct {
	byEmail map[string]*Account
	byID    map[int64]*Account
}

func newMockAccounts(accounts ...*Account) *mockAccounts {
	m := &mockAccounts{byEmail: make(map[string]*Account), byID: make(map[int64]*Account)}
	for _, a := range accounts {
		m.byEmail[a.Email] = a
		m.byID[a.ID] = a
	}
	return m
}

func (m *mockAccounts) FindByEmail(_ context.Context, email string) (*Account, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func (m *mockAccounts) FindByID(_ context.Context, id int64) (*Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return a, nil
}

func testAccount(t *testing.T, password string) *Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &Account{
		ID:           7,
		Name:         "Owner",
		Email:        "owner@example.com",
		PasswordHash: string(hash),
		Role:         shared.RoleOwner,
		IsActive:     true,
	}
}

func newTestService(t *testing.T, accounts *mockAccounts) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(accounts, NewTokenStore(client, time.Hour)), mr
}

func TestLoginAndResolve(t *testing.T) {
	account := testAccount(t, "hunter2hunter2")
	svc, _ := newTestService(t, newMockAccounts(account))

	token, identity, err := svc.Login(context.Background(), "owner@example.com", "hunter2hunter2")

	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, int64(7), identity.UserID)
	assert.Equal(t, shared.RoleOwner, identity.Role)

	resolved, err := svc.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, resolved.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestService(t, newMockAccounts(testAccount(t, "hunter2hunter2")))

	_, _, err := svc.Login(context.Background(), "owner@example.com", "wrong")

	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newTestService(t, newMockAccounts())

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "whatever")

	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	account := testAccount(t, "hunter2hunter2")
	account.IsActive = false
	svc, _ := newTestService(t, newMockAccounts(account))

	_, _, err := svc.Login(context.Background(), "owner@example.com", "hunter2hunter2")

	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestResolveAfterDeactivation(t *testing.T) {
	account := testAccount(t, "hunter2hunter2")
	svc, _ := newTestService(t, newMockAccounts(account))

	token, _, err := svc.Login(context.Background(), "owner@example.com", "hunter2hunter2")
	require.NoError(t, err)

	account.IsActive = false

	_, err = svc.Resolve(context.Background(), token)
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestResolveExpiredToken(t *testing.T) {
	account := testAccount(t, "hunter2hunter2")
	svc, mr := newTestService(t, newMockAccounts(account))

	token, _, err := svc.Login(context.Background(), "owner@example.com", "hunter2hunter2")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = svc.Resolve(context.Background(), token)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestLogoutRevokesToken(t *testing.T) {
	account := testAccount(t, "hunter2hunter2")
	svc, _ := newTestService(t, newMockAccounts(account))

	token, _, err := svc.Login(context.Background(), "owner@example.com", "hunter2hunter2")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err = svc.Resolve(context.Background(), token)
	require.ErrorIs(t, err, shared.ErrUnauthenticated)
}
