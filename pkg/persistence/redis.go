package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient is the subset of *redis.Client the redis driver needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd
	Close() error
}

type redisBackend struct {
	client RedisClient
	prefix string
}

// NewRedisStore returns a gateway backed by redis. Keys are namespaced with
// prefix followed by ":" when prefix is set. The submission id is created
// with SETNX so concurrent first writers agree on one value.
func NewRedisStore(client RedisClient, prefix string) *Store {
	return newStore(DriverRedis, &redisBackend{client: client, prefix: strings.TrimSpace(prefix)})
}

func (r *redisBackend) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func (r *redisBackend) get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (r *redisBackend) put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.key(key), value, 0).Err()
}

func (r *redisBackend) putIfAbsent(ctx context.Context, key string, value []byte) ([]byte, error) {
	created, err := r.client.SetNX(ctx, r.key(key), value, 0).Result()
	if err != nil {
		return nil, err
	}
	if created {
		return value, nil
	}
	stored, _, err := r.get(ctx, key)
	return stored, err
}

func (r *redisBackend) close() error {
	return r.client.Close()
}
