package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRegistry tracks the jti of every issued token for the token's
// lifetime. It backs replay detection in the auth middleware and is the
// hook for a future revocation list.
// Key format: token:jti:<jti>
type TokenRegistry struct {
	client *redis.Client
}

// NewTokenRegistry creates a TokenRegistry wrapping the given Redis client.
func NewTokenRegistry(client *redis.Client) *TokenRegistry {
	return &TokenRegistry{client: client}
}

// Record stores a freshly issued jti. The entry expires with the token, so
// the registry never outgrows the set of currently valid tokens.
func (r *TokenRegistry) Record(ctx context.Context, jti string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("record jti: %w", err)
	}
	return nil
}

// IsKnown reports whether the jti belongs to a token this service issued
// and that has not yet expired.
func (r *TokenRegistry) IsKnown(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("jti lookup: %w", err)
	}
	return n > 0, nil
}

func (r *TokenRegistry) key(jti string) string {
	return "token:jti:" + jti
}
