package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/mba-profile-analyzer/internal/domain"
)

// Redis backs the Cache port with a shared Redis instance so the parser and
// embedding caches survive restarts and are visible across replicas.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis constructs a Redis cache from a redis URL (redis://host:port/db).
// The prefix namespaces keys so multiple caches can share one instance.
func NewRedis(url, prefix string) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("op=cache.NewRedis: %w", err)
	}
	return &Redis{rdb: redis.NewClient(opt), prefix: prefix}, nil
}

var _ domain.Cache = (*Redis)(nil)

func (c *Redis) key(k string) string { return c.prefix + ":" + k }

// Get returns the value for key if present.
func (c *Redis) Get(ctx domain.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("op=cache.Redis.Get: %w", err)
	}
	return b, true, nil
}

// Set stores value under key with the given TTL (zero means no expiry).
func (c *Redis) Set(ctx domain.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		return fmt.Errorf("op=cache.Redis.Set: %w", err)
	}
	return nil
}

// Len reports the number of keys under this cache's prefix. Linear in
// keyspace size; intended for diagnostics, not hot paths.
func (c *Redis) Len(ctx domain.Context) (int, error) {
	var count int
	iter := c.rdb.Scan(ctx, 0, c.prefix+":*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("op=cache.Redis.Len: %w", err)
	}
	return count, nil
}

// Ping verifies connectivity; used by readiness checks.
func (c *Redis) Ping(ctx domain.Context) error {
	return c.rdb.Ping(ctx).Err()
}
