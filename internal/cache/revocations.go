package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Revocations records signed-out token hashes until their natural expiry.
type Revocations struct {
	client *redis.Client
}

// NewRevocations returns a Revocations writing through client.
func NewRevocations(client *redis.Client) *Revocations {
	return &Revocations{client: client}
}

// Revoke marks tokenHash as signed out for ttl.
func (r *Revocations) Revoke(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if err := r.client.Set(ctx, revokedKey(tokenHash), 1, ttl).Err(); err != nil {
		return fmt.Errorf("cache.Revocations.Revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenHash was signed out.
func (r *Revocations) IsRevoked(ctx context.Context, tokenHash string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKey(tokenHash)).Result()
	if err != nil {
		return false, fmt.Errorf("cache.Revocations.IsRevoked: %w", err)
	}
	return n > 0, nil
}

func revokedKey(hash string) string {
	return "revoked:" + hash
}
