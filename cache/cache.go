// Package cache provides a Redis-backed result cache for planning runs.
//
// Runs are expensive, so hosts cache the final plan state keyed by a
// deterministic hash of the normalized request parameters: an identical
// request served before short-circuits the whole run. The orchestration core
// does not depend on this package; it is a pure optimization layer above it.
package cache

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Well-known cache namespaces.
const (
	// NamespaceResults holds final plan states keyed by request parameters.
	NamespaceResults = "results"

	// NamespaceAPIResponses holds raw upstream responses (weather, flights)
	// cached by the host's tool layer.
	NamespaceAPIResponses = "api_responses"
)

// DefaultTTL is how long cached entries live unless the caller overrides it.
const DefaultTTL = time.Hour

// Cache defines the interface for the result cache.
type Cache interface {
	// Get loads the cached value for the given namespace and parameters
	// into dest. Returns false when there is no entry.
	Get(ctx context.Context, namespace string, params map[string]any, dest any) (bool, error)

	// Set stores a value under the given namespace and parameters with a
	// TTL. A zero TTL means DefaultTTL.
	Set(ctx context.Context, namespace string, params map[string]any, value any, ttl time.Duration) error

	// Delete removes the entry for the given namespace and parameters.
	Delete(ctx context.Context, namespace string, params map[string]any) error

	// Close closes the underlying connection.
	Close() error
}

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// RedisCache implements the Cache interface using go-redis/v9.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Redis-backed cache with the given options.
func NewRedisCache(opts RedisOptions) (*RedisCache, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisCache{client: client}, nil
}

// Get loads the cached value for the given namespace and parameters.
func (c *RedisCache) Get(ctx context.Context, namespace string, params map[string]any, dest any) (bool, error) {
	key, err := Key(namespace, params)
	if err != nil {
		return false, err
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache entry %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache entry %s: %w", key, err)
	}
	return true, nil
}

// Set stores a value under the given namespace and parameters.
func (c *RedisCache) Set(ctx context.Context, namespace string, params map[string]any, value any, ttl time.Duration) error {
	key, err := Key(namespace, params)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache entry %s: %w", key, err)
	}
	return nil
}

// Delete removes the entry for the given namespace and parameters.
func (c *RedisCache) Delete(ctx context.Context, namespace string, params map[string]any) error {
	key, err := Key(namespace, params)
	if err != nil {
		return err
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache entry %s: %w", key, err)
	}
	return nil
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Key derives the deterministic cache key for a namespace and parameter set.
// Parameters are serialized as JSON with sorted keys and hashed; the key uses
// the first 16 hex characters of the digest, so equivalent requests map to
// the same entry regardless of parameter order.
func Key(namespace string, params map[string]any) (string, error) {
	normalized, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to normalize cache params: %w", err)
	}
	digest := sha256.Sum256(normalized)
	return fmt.Sprintf("cache:%s:%s", namespace, hex.EncodeToString(digest[:])[:16]), nil
}
