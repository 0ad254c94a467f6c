package users

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kasapos/kasapos/internal/shared"
)

// Service provides account management business logic.
type Service struct {
	repo Repository
}

// NewService constructs a users service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all active accounts.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get returns one account.
func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: invalid user id", shared.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Create registers a new account with a hashed password.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	role := shared.Role(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", shared.ErrValidation, req.Role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("users: hash password: %w", err)
	}

	user := User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		Phone:        req.Phone,
		IsActive:     true,
		passwordHash: string(hash),
	}
	id, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, fmt.Errorf("%w: email already in use", shared.ErrConflict)
		}
		return nil, fmt.Errorf("users: create: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// Update modifies the mutable account fields. The role is fixed at creation.
func (s *Service) Update(ctx context.Context, id int64, req UpdateUserRequest) (*User, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		existing.Name = *req.Name
	}
	if req.Email != nil {
		existing.Email = *req.Email
	}
	if req.Phone != nil {
		existing.Phone = *req.Phone
	}
	if req.IsActive != nil {
		existing.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("users: hash password: %w", err)
		}
		existing.passwordHash = string(hash)
	}

	if err := s.repo.Update(ctx, *existing); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return nil, fmt.Errorf("%w: email already in use", shared.ErrConflict)
		}
		return nil, fmt.Errorf("users: update: %w", err)
	}
	return s.repo.Get(ctx, id)
}

// SeedOwner creates the initial owner account when the users table is empty.
func (s *Service) SeedOwner(ctx context.Context, name, email, password string) error {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("users: count: %w", err)
	}
	if total > 0 {
		return nil
	}
	_, err = s.Create(ctx, CreateUserRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     string(shared.RoleOwner),
	})
	return err
}
