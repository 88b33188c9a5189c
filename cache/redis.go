package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"concierge/config"
)

// SharedStore is the network-backed primary tier. Implementations must treat
// a logical miss and a connectivity failure as distinct outcomes: the tiered
// cache only falls back on the latter.
type SharedStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteMatching(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
	Close() error
}

// RedisStore backs the shared tier with a Redis key-value store.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a shared store from cache configuration. It does not
// ping on construction: a Redis that is down at boot must not prevent the
// process from serving out of the fallback tier.
func NewRedisStore(cfg config.CacheConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.OpTimeout(),
		ReadTimeout:  cfg.OpTimeout(),
		WriteTimeout: cfg.OpTimeout(),
	})
	return &RedisStore{client: client}
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil // logical miss
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

// DeleteMatching removes keys matching a Redis glob pattern via SCAN so
// large keyspaces are never blocked by a KEYS call.
func (r *RedisStore) DeleteMatching(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
