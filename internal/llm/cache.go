package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultCacheTTL is how long a cached completion stays valid
const DefaultCacheTTL = 24 * time.Hour

// Cache stores completions keyed by a prompt fingerprint.
// Get returns ("", false, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache implements Cache on a Redis instance
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache connects to redisURL (redis:// or rediss://) and verifies the connection
func NewRedisCache(ctx context.Context, redisURL string) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisCache{client: client, prefix: "llm:completion:"}, nil
}

// Get returns the cached value for key
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get failed: %w", err)
	}
	return val, true, nil
}

// Set stores value under key for ttl
func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CachedClient decorates a Client with a completion cache.
// Cache failures are logged and the call falls through to the provider.
type CachedClient struct {
	inner    Client
	cache    Cache
	ttl      time.Duration
	provider string
}

// NewCachedClient wraps inner with cache. A non-positive ttl uses DefaultCacheTTL.
func NewCachedClient(inner Client, cache Cache, ttl time.Duration, provider Provider) *CachedClient {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedClient{inner: inner, cache: cache, ttl: ttl, provider: string(provider)}
}

// GenerateContent returns a cached completion when available
func (c *CachedClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.cached(ctx, "text", prompt, tier, c.inner.GenerateContent)
}

// GenerateJSON returns a cached JSON completion when available
func (c *CachedClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.cached(ctx, "json", prompt, tier, c.inner.GenerateJSON)
}

// GetModel returns the wrapped client's model for tier
func (c *CachedClient) GetModel(tier ModelTier) string {
	return c.inner.GetModel(tier)
}

// Close closes the wrapped client and the cache when it holds connections
func (c *CachedClient) Close() error {
	err := c.inner.Close()
	if closer, ok := c.cache.(io.Closer); ok {
		err = errors.Join(err, closer.Close())
	}
	return err
}

type generateFunc func(ctx context.Context, prompt string, tier ModelTier) (string, error)

func (c *CachedClient) cached(ctx context.Context, kind, prompt string, tier ModelTier, generate generateFunc) (string, error) {
	key := CacheKey(c.provider, c.inner.GetModel(tier), kind, prompt)

	if val, ok, err := c.cache.Get(ctx, key); err != nil {
		log.Printf("[llm-cache] lookup failed: %v", err)
	} else if ok {
		return val, nil
	}

	val, err := generate(ctx, prompt, tier)
	if err != nil {
		return "", err
	}

	if err := c.cache.Set(ctx, key, val, c.ttl); err != nil {
		log.Printf("[llm-cache] store failed: %v", err)
	}
	return val, nil
}

// CacheKey fingerprints a request. Parts are length-prefixed so that
// ("ab", "c") and ("a", "bc") never collide.
func CacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%d:%s|", len(p), p)
	}
	return hex.EncodeToString(h.Sum(nil))
}
