package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fadhlanhapp/courtsplit-backend/utils"
)

// Ensure RedisKV implements KVStore
var _ KVStore = (*RedisKV)(nil)

// RedisKV is a remote key-value store on Redis. Keys are namespaced with a
// prefix so several deployments can share one instance.
type RedisKV struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisKV connects to the Redis server at url and checks it is reachable.
func NewRedisKV(ctx context.Context, url, prefix string) (*RedisKV, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewRedisKVWithClient(client, prefix), nil
}

// NewRedisKVWithClient wraps an existing client
func NewRedisKVWithClient(client redis.UniversalClient, prefix string) *RedisKV {
	trimmed := strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if trimmed == "" {
		trimmed = utils.DefaultKeyPrefix
	}
	return &RedisKV{client: client, prefix: trimmed}
}

func (r *RedisKV) fullKey(key string) string {
	return r.prefix + ":" + key
}

// Get reads the value stored under key.
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, r.fullKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Put stores value under key without expiry.
func (r *RedisKV) Put(ctx context.Context, key string, value []byte) error {
	return r.client.Set(ctx, r.fullKey(key), value, 0).Err()
}

// Close closes the client connection pool.
func (r *RedisKV) Close() error {
	return r.client.Close()
}
