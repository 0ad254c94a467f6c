package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kasapos/kasapos/internal/shared"
)

// Service wraps authentication business rules.
type Service struct {
	repo   Repository
	tokens *TokenStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenStore) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// Login validates email/password credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *shared.Identity, error) {
	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", nil, shared.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("auth: find account: %w", err)
	}
	if !account.IsActive {
		return "", nil, shared.ErrForbidden
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", nil, shared.ErrInvalidCredentials
	}

	identity := shared.Identity{
		UserID: account.ID,
		Name:   account.Name,
		Email:  account.Email,
		Role:   account.Role,
	}
	token, err := s.tokens.Issue(ctx, identity)
	if err != nil {
		return "", nil, fmt.Errorf("auth: issue token: %w", err)
	}
	return token, &identity, nil
}

// Resolve maps a bearer token back to a live identity. The account row is
// re-read so that deactivation and deletion take effect immediately.
func (s *Service) Resolve(ctx context.Context, token string) (*shared.Identity, error) {
	identity, err := s.tokens.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	account, err := s.repo.FindByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrUnauthenticated
		}
		return nil, fmt.Errorf("auth: refresh account: %w", err)
	}
	if !account.IsActive {
		return nil, shared.ErrForbidden
	}
	identity.Name = account.Name
	identity.Email = account.Email
	identity.Role = account.Role
	return identity, nil
}

// Logout revokes the bearer token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}
