package users

import (
	"time"

	"github.com/kasapos/kasapos/internal/shared"
)

// User is an account visible to the administrative API. The password hash is
// held internally and never serialised.
type User struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      shared.Role `json:"role"`
	Phone     string      `json:"phone"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`

	passwordHash string
}

// CreateUserRequest is the payload for creating an account.
type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=owner cashier"`
	Phone    string `json:"phone"`
}

// UpdateUserRequest carries optional account updates.
type UpdateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=8"`
	Phone    *string `json:"phone"`
	IsActive *bool   `json:"isActive"`
}
