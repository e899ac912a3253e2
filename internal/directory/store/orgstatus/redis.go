package orgstatus

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"phonebook/internal/directory/ports"
)

const (
	// Redis hash holding orgCode -> "1"/"0"
	defaultCacheKey = "phonebook:org-status"
	defaultCacheTTL = time.Hour
)

// RedisCache serves the mapping from a Redis hash, filling it from the next
// source on a miss. Redis failures are logged and bypassed; only errors from
// the next source reach the caller.
type RedisCache struct {
	client redis.Cmdable
	next   ports.OrgStatusSource
	key    string
	ttl    time.Duration
	logger *slog.Logger
}

type CacheOption func(*RedisCache)

func WithTTL(ttl time.Duration) CacheOption {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func WithKey(key string) CacheOption {
	return func(c *RedisCache) {
		if key != "" {
			c.key = key
		}
	}
}

func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *RedisCache) {
		c.logger = logger
	}
}

func NewRedisCache(client redis.Cmdable, next ports.OrgStatusSource, opts ...CacheOption) (*RedisCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if next == nil {
		return nil, fmt.Errorf("organisation status source is required")
	}

	c := &RedisCache{
		client: client,
		next:   next,
		key:    defaultCacheKey,
		ttl:    defaultCacheTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *RedisCache) OrgStatus(ctx context.Context) (map[string]bool, error) {
	cached, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		c.logger.WarnContext(ctx, "organisation status cache read failed", "error", err)
	} else if len(cached) > 0 {
		return decode(cached), nil
	}

	status, err := c.next.OrgStatus(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.store(ctx, status); err != nil {
		c.logger.WarnContext(ctx, "organisation status cache write failed", "error", err)
	}
	return status, nil
}

// Invalidate drops the cached mapping so the next read goes to the source.
func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}

func (c *RedisCache) store(ctx context.Context, status map[string]bool) error {
	if len(status) == 0 {
		return nil
	}
	fields := make(map[string]any, len(status))
	for code, active := range status {
		fields[code] = encodeFlag(active)
	}

	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.key)
		pipe.HSet(ctx, c.key, fields)
		pipe.Expire(ctx, c.key, c.ttl)
		return nil
	})
	return err
}

func encodeFlag(active bool) string {
	if active {
		return "1"
	}
	return "0"
}

func decode(cached map[string]string) map[string]bool {
	out := make(map[string]bool, len(cached))
	for code, v := range cached {
		active, err := strconv.ParseBool(v)
		out[code] = err == nil && active
	}
	return out
}
