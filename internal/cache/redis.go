package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis adapts a go-redis client to the cache interfaces used by services.
// A nil client degrades to a cache that always misses, so redis stays
// optional at deploy time.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool) {
	if r == nil || r.client == nil {
		return "", false
	}
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if r == nil || r.client == nil {
		return
	}
	r.client.Set(ctx, key, value, ttl)
}
