package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key prefix for revoked tokens.
const revokedKeyPrefix = "wl:jti:"

// Redis is a Redis-backed revocation list for deployments where multiple
// instances need to share revocation state.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Revoke marks a token id revoked with TTL. Key existence is what matters.
func (l *Redis) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if jti == "" {
		return nil
	}
	return l.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether a token id is on the list. A missing key means
// not revoked (or already expired).
func (l *Redis) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	_, err := l.client.Get(ctx, revokedKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
