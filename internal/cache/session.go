package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// revokedSessionPrefix is the Redis key prefix for logged-out session token IDs.
const revokedSessionPrefix = "session:revoked:"

// RevokeSession records a session token ID as logged out until ttl elapses.
// A non-positive ttl means the token has already expired and nothing is stored.
func (c *Cache) RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" {
		return errors.New("empty token id")
	}
	if ttl <= 0 {
		return nil
	}
	if err := c.client.Set(ctx, revokedSessionPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// IsSessionRevoked reports whether the token ID was logged out.
func (c *Cache) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := c.client.Get(ctx, revokedSessionPrefix+tokenID).Err()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, redis.Nil):
		return false, nil
	default:
		return false, fmt.Errorf("check session revocation: %w", err)
	}
}
