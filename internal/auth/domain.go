package auth

import (
	"time"

	"github.com/kasapos/kasapos/internal/shared"
)

// Account is the stored user record used for credential checks.
type Account struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         shared.Role
	Phone        string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenCookieName is the cookie carrying the bearer token for browser clients.
const TokenCookieName = "kasapos_token"
