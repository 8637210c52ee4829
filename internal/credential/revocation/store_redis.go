package revocation

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares the revocation list across gate service instances.
// Redis TTL handles expiry; the value is irrelevant, presence is the fact.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(jti string) string { return "unipass:revoked:" + jti }

func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := s.client.Set(ctx, key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke credential: %w", err)
	}
	return nil
}

func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.client.Exists(ctx, key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check credential revocation: %w", err)
	}
	return n > 0, nil
}
