package sourcescache

import (
	"context"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/scopeengine/core/internal/sourcesrepo"
)

// keyPrefix namespaces every entry this package writes, so a shared redis
// instance can host other callers' keys safely.
const keyPrefix = "scope:sourcescache:"

// RedisCache is a Cache backed by a redis pool, for reuse across separate
// process invocations (the teacher's cache/redis provider plays the same
// role for blob descriptors).
type RedisCache struct {
	pool *redis.Pool
	ttl  time.Duration
}

// NewRedisCache constructs a RedisCache. ttl is applied to every SET; zero
// means no expiration.
func NewRedisCache(pool *redis.Pool, ttl time.Duration) *RedisCache {
	return &RedisCache{pool: pool, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) (sourcesrepo.ComponentObjects, bool, error) {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return sourcesrepo.ComponentObjects{}, false, fmt.Errorf("sourcescache: redis conn: %w", err)
	}
	defer conn.Close()

	raw, err := redis.Bytes(conn.Do("GET", keyPrefix+key))
	if err == redis.ErrNil {
		return sourcesrepo.ComponentObjects{}, false, nil
	}
	if err != nil {
		return sourcesrepo.ComponentObjects{}, false, fmt.Errorf("sourcescache: redis GET %s: %w", key, err)
	}

	bundle, err := decodeBundle(raw)
	if err != nil {
		return sourcesrepo.ComponentObjects{}, false, err
	}
	return bundle, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value sourcesrepo.ComponentObjects) error {
	conn, err := c.pool.GetContext(ctx)
	if err != nil {
		return fmt.Errorf("sourcescache: redis conn: %w", err)
	}
	defer conn.Close()

	raw, err := encodeBundle(value)
	if err != nil {
		return err
	}

	if c.ttl > 0 {
		_, err = conn.Do("SET", keyPrefix+key, raw, "EX", int(c.ttl.Seconds()))
	} else {
		_, err = conn.Do("SET", keyPrefix+key, raw)
	}
	if err != nil {
		return fmt.Errorf("sourcescache: redis SET %s: %w", key, err)
	}
	return nil
}
