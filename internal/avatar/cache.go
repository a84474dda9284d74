package avatar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores lookup results by handle.
type Cache interface {
	Get(ctx context.Context, handle string) (Result, bool, error)
	Set(ctx context.Context, handle string, res Result, ttl time.Duration) error
}

// RedisCache keeps lookup results in Redis as JSON.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the Redis instance at rawURL and pings it.
func NewRedisCache(ctx context.Context, rawURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return &RedisCache{client: client}, nil
}

func cacheKey(handle string) string {
	return "avatar:lookup:" + strings.ToLower(strings.TrimSpace(handle))
}

func (c *RedisCache) Get(ctx context.Context, handle string) (Result, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result{}, false, nil
	}
	if err != nil {
		return Result{}, false, err
	}
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, false, fmt.Errorf("decode cached lookup: %w", err)
	}
	return res, true, nil
}

func (c *RedisCache) Set(ctx context.Context, handle string, res Result, ttl time.Duration) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, cacheKey(handle), raw, ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
