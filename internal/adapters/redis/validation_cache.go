package redis

// Package redis provides Redis-based adapters for the uploader.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orc-hfg/uploader/internal/ports"
)

// DefaultPrefix namespaces validation entries.
const DefaultPrefix = "uploader:auth:valid:"

// ValidationCache remembers sessions the authentication server confirmed recently.
// Keys are opaque digests supplied by the caller; TTL is enforced by Redis.
type ValidationCache struct {
	client redis.UniversalClient
	prefix string
}

var _ ports.ValidationCache = (*ValidationCache)(nil)

// NewValidationCache creates a Redis-backed validation cache.
func NewValidationCache(client redis.UniversalClient) *ValidationCache {
	return NewValidationCacheWithPrefix(client, DefaultPrefix)
}

// NewValidationCacheWithPrefix creates a validation cache with a custom key prefix.
func NewValidationCacheWithPrefix(client redis.UniversalClient, prefix string) *ValidationCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &ValidationCache{
		client: client,
		prefix: prefix,
	}
}

func (c *ValidationCache) Lookup(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, nil
	}

	_, err := c.client.Get(ctx, c.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get: %w", err)
	}
	return true, nil
}

func (c *ValidationCache) Store(ctx context.Context, key string, ttl time.Duration) error {
	if key == "" {
		return errors.New("validation key cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("validation ttl must be positive")
	}

	stamp := time.Now().UTC().Format(time.RFC3339)
	if err := c.client.Set(ctx, c.prefix+key, stamp, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *ValidationCache) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil // Nothing to delete
	}
	return c.client.Del(ctx, c.prefix+key).Err()
}
