package auth

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kasapos/kasapos/internal/shared"
)

// TokenStore keeps opaque bearer tokens in Redis with a TTL.
type TokenStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTokenStore constructs a TokenStore.
func NewTokenStore(client *redis.Client, ttl time.Duration) *TokenStore {
	return &TokenStore{client: client, ttl: ttl}
}

// Issue mints a new token bound to the identity.
func (s *TokenStore) Issue(ctx context.Context, id shared.Identity) (string, error) {
	token := uuid.NewString()
	payload, err := json.Marshal(id)
	if err != nil {
		return "", err
	}
	if err := s.client.Set(ctx, s.key(token), payload, s.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the identity bound to token, ErrUnauthenticated when the
// token is unknown or expired.
func (s *TokenStore) Resolve(ctx context.Context, token string) (*shared.Identity, error) {
	payload, err := s.client.Get(ctx, s.key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrUnauthenticated
		}
		return nil, err
	}
	var id shared.Identity
	if err := json.Unmarshal(payload, &id); err != nil {
		return nil, shared.ErrUnauthenticated
	}
	return &id, nil
}

// Revoke deletes the token.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, s.key(token)).Err()
}

// TTL exposes the configured token lifetime.
func (s *TokenStore) TTL() time.Duration {
	return s.ttl
}

func (s *TokenStore) key(token string) string {
	return "token:" + token
}
