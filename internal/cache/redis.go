package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const keyPrefix = "page:"

// RedisConfig defines Redis connection settings for the page cache.
type RedisConfig struct {
	Addr     string
	Username string
	Password string
	Database int
	TTL      time.Duration
}

// Redis is a PageCache backed by a Redis server, for deployments where
// several instances should share one cache and survive restarts.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection before returning.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("cache: connecting to redis: %w", err)
	}

	return &Redis{client: client, ttl: cfg.TTL}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	page, err := r.client.Get(ctx, keyPrefix+key).Result()
	if err != nil {
		// redis.Nil is an ordinary miss; anything else degrades to a miss
		// too — the cache must never take a page down with it.
		return "", false
	}
	return page, true
}

func (r *Redis) Set(ctx context.Context, key, page string) error {
	if err := r.client.Set(ctx, keyPrefix+key, page, r.ttl).Err(); err != nil {
		return fmt.Errorf("cache: storing %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = keyPrefix + key
	}

	if err := r.client.Del(ctx, prefixed...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("cache: invalidating: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
