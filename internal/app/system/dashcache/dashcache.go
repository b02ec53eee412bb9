// Package dashcache caches rendered dashboard payloads in Redis. A Cache built
// without a Redis address is a no-op, so callers never branch on whether
// caching is configured.
package dashcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores JSON-encodable values under role+user keys.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Close() error
}

// Config configures the Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// Key builds the cache key for one user's dashboard.
func Key(role, userID string) string {
	return fmt.Sprintf("carehub:dashboard:%s:%s", role, userID)
}

// New returns a Redis-backed cache, or Nop when cfg.Addr is empty. It pings
// the server so a bad address fails at startup.
func New(ctx context.Context, cfg Config) (Cache, error) {
	if cfg.Addr == "" {
		return Nop{}, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return NewRedis(client, cfg.TTL), nil
}

// Redis is the go-redis implementation.
type Redis struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedis wraps an existing client. A zero ttl defaults to one minute.
func NewRedis(client redis.UniversalClient, ttl time.Duration) *Redis {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Redis{client: client, ttl: ttl}
}

// Get decodes the value at key into dst. A missing key is (false, nil).
func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("dashcache get: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, fmt.Errorf("dashcache decode: %w", err)
	}
	return true, nil
}

// Set stores v at key with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("dashcache encode: %w", err)
	}
	if err := r.client.Set(ctx, key, b, r.ttl).Err(); err != nil {
		return fmt.Errorf("dashcache set: %w", err)
	}
	return nil
}

func (r *Redis) Close() error { return r.client.Close() }

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Nop) Set(context.Context, string, any) error         { return nil }
func (Nop) Close() error                                   { return nil }
