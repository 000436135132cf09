package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vtumanov/filevault/internal/common"
)

// keyPrefix namespaces session keys in the cache: auth_<token>.
const keyPrefix = "auth_"

// RedisStore is a Redis-backed session store. Expiry is delegated to Redis
// key TTLs, so no sweeper is needed.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (r *RedisStore) key(token string) string {
	return keyPrefix + token
}

func (r *RedisStore) Set(ctx context.Context, token, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(token), userID, ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, token string) (string, error) {
	val, err := r.client.Get(ctx, r.key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", common.ErrorNotFound
	}
	if err != nil {
		return "", fmt.Errorf("session get: %w", err)
	}
	return val, nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	if err := r.client.Del(ctx, r.key(token)).Err(); err != nil {
		return fmt.Errorf("session delete: %w", err)
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
