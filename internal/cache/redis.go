package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jengzang/carbon-footprint-backend/internal/config"
)

// RedisStore implements Store on Redis
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store; the connection is established lazily by go-redis
func NewRedisStore(cfg config.RedisConfig) *RedisStore {
	return &RedisStore{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: "carbon:",
	}
}

// Ping checks connectivity
func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

// Get retrieves a value from cache
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	result, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get from cache: %w", err)
	}
	return result, true, nil
}

// Set stores a value in cache with expiration
func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, r.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

// Close releases the connection pool
func (r *RedisStore) Close() error {
	return r.client.Close()
}
