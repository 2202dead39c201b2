package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zatekoja/hospitaladmin/internal/domain/providers"
	redisclient "github.com/zatekoja/hospitaladmin/internal/infrastructure/clients/redis"
	"github.com/zatekoja/hospitaladmin/internal/infrastructure/observability"
)

// RedisAdapter implements the StorageProvider interface using Redis
type RedisAdapter struct {
	client  *redisclient.Client
	prefix  string
	metrics *observability.Metrics
}

// NewRedisAdapter creates a new Redis storage adapter. Every key is
// namespaced with prefix so several deployments can share one server.
func NewRedisAdapter(client *redisclient.Client, prefix string, metrics *observability.Metrics) providers.StorageProvider {
	return &RedisAdapter{
		client:  client,
		prefix:  prefix,
		metrics: metrics,
	}
}

func (a *RedisAdapter) key(k string) string {
	return a.prefix + k
}

// Get retrieves a value
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	defer a.observe(ctx, "get", time.Now())

	result, err := a.client.Client().Get(ctx, a.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", providers.ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}
	return result, nil
}

// Set stores a value with expiration
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	defer a.observe(ctx, "set", time.Now())

	expiration := time.Duration(expirationSeconds) * time.Second
	if err := a.client.Client().Set(ctx, a.key(key), value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

// Delete removes a value
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	defer a.observe(ctx, "delete", time.Now())

	if err := a.client.Client().Del(ctx, a.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// Exists checks if a key exists
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	defer a.observe(ctx, "exists", time.Now())

	result, err := a.client.Client().Exists(ctx, a.key(key)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence in redis: %w", err)
	}
	return result > 0, nil
}

func (a *RedisAdapter) observe(ctx context.Context, op string, start time.Time) {
	observability.RecordStorageMetric(ctx, a.metrics, "redis", op, time.Since(start))
}
