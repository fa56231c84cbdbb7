// Package redis provides the metadata cache backed by a Redis instance.
package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/dockprep/internal/config"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// ErrCacheMiss is returned by Get when the key is not present.
var ErrCacheMiss = errors.New(errors.CodeNotFound, "cache miss")

// NewClient builds a go-redis client from the redis config section.
func NewClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
}

// Cache stores JSON-encoded values under prefixed keys with a default TTL.
type Cache struct {
	client     redis.Cmdable
	keyPrefix  string
	defaultTTL time.Duration
	logger     logging.Logger
}

// NewCache wraps a Redis client as a JSON cache.
func NewCache(client redis.Cmdable, cfg config.RedisConfig, logger logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{
		client:     client,
		keyPrefix:  cfg.KeyPrefix,
		defaultTTL: cfg.DefaultTTL,
		logger:     logger.Named("cache"),
	}
}

func (c *Cache) key(k string) string { return c.keyPrefix + k }

// Get unmarshals the cached value for key into dest. Returns ErrCacheMiss
// when the key does not exist.
func (c *Cache) Get(ctx context.Context, key string, dest any) error {
	data, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if stderrors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return errors.Wrap(err, errors.CodeExternalService,
			fmt.Sprintf("failed to read cache key %q", key))
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Wrap(err, errors.CodeInternal,
			fmt.Sprintf("failed to decode cached value for %q", key))
	}
	return nil
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(ctx context.Context, key string, value any) error {
	return c.SetWithTTL(ctx, key, value, c.defaultTTL)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *Cache) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal,
			fmt.Sprintf("failed to encode value for cache key %q", key))
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return errors.Wrap(err, errors.CodeExternalService,
			fmt.Sprintf("failed to write cache key %q", key))
	}
	return nil
}

// GetOrSet returns the cached value for key, or on a miss invokes load,
// caches its result, and unmarshals it into dest. A cache write failure is
// logged but does not fail the call; the loaded value is still returned.
func (c *Cache) GetOrSet(ctx context.Context, key string, dest any, load func(context.Context) (any, error)) error {
	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if !stderrors.Is(err, ErrCacheMiss) {
		// Degrade to the loader on transport errors too.
		c.logger.Warn("cache read failed, falling through to loader",
			logging.String("key", key), logging.Err(err))
	}

	value, err := load(ctx)
	if err != nil {
		return err
	}

	if setErr := c.Set(ctx, key, value); setErr != nil {
		c.logger.Warn("failed to populate cache",
			logging.String("key", key), logging.Err(setErr))
	}

	// Round-trip through JSON so dest is filled the same way a cache hit
	// would fill it.
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode loaded value")
	}
	return json.Unmarshal(data, dest)
}

// Ping verifies connectivity to the Redis instance.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.CodeExternalService, "redis ping failed")
	}
	return nil
}
