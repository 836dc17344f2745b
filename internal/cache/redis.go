// Package cache provides a Redis-backed JSON cache that degrades to a
// pass-through when Redis is not configured or unreachable.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonathan/talent-tracker/internal/logger"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL applies when a caller passes a non-positive TTL.
const DefaultTTL = 30 * time.Second

// Lookup results reported to the Observer.
const (
	ResultHit    = "hit"
	ResultMiss   = "miss"
	ResultError  = "error"
	ResultBypass = "bypass"
)

// Observer receives lookup results. *metrics.Metrics implements it.
type Observer interface {
	CacheLookup(key, result string)
}

// Redis is a JSON cache over go-redis. A Redis with a nil client bypasses
// every call.
type Redis struct {
	client   *redis.Client
	log      logger.Logger
	observer Observer

	warnedUnavailable atomic.Bool
}

// Connect parses redisURL and pings the server. An empty URL or a failed ping
// yields a bypassing cache, never an error, so the service runs without Redis.
// A malformed URL is an error.
func Connect(ctx context.Context, redisURL string, log logger.Logger, observer Observer) (*Redis, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if redisURL == "" {
		log.Info("redis not configured, cache disabled")
		return &Redis{log: log, observer: observer}, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, bypassing cache", logger.Error(err))
		_ = client.Close()
		return &Redis{log: log, observer: observer}, nil
	}
	return New(client, log, observer), nil
}

// New wraps an existing client.
func New(client *redis.Client, log logger.Logger, observer Observer) *Redis {
	if log == nil {
		log = logger.NewNop()
	}
	return &Redis{client: client, log: log, observer: observer}
}

// Available reports whether calls reach Redis.
func (r *Redis) Available() bool {
	return r != nil && r.client != nil
}

// Client returns the underlying client, or nil when bypassing.
func (r *Redis) Client() *redis.Client {
	if r == nil {
		return nil
	}
	return r.client
}

// Close releases the client.
func (r *Redis) Close() error {
	if !r.Available() {
		return nil
	}
	return r.client.Close()
}

func (r *Redis) observe(key, result string) {
	if r != nil && r.observer != nil {
		r.observer.CacheLookup(key, result)
	}
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.log.Warn("redis call failed, serving from source", logger.Error(err))
	}
}

// GetJSON decodes the value at key into out. It reports false on a miss or
// when bypassing.
func (r *Redis) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	if !r.Available() {
		return false, nil
	}
	b, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		r.warnUnavailableOnce(err)
		return false, err
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores value at key for ttl.
func (r *Redis) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !r.Available() {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, key, b, ttl).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// Delete removes keys.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if !r.Available() || len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return err
	}
	return nil
}

// GetOrLoad returns the cached value at key, or calls load and caches its
// result. Cache failures fall through to load; load errors are returned and
// never cached.
func GetOrLoad[T any](ctx context.Context, r *Redis, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if !r.Available() {
		r.observe(key, ResultBypass)
		return load(ctx)
	}

	var cached T
	ok, err := r.GetJSON(ctx, key, &cached)
	switch {
	case err != nil:
		r.observe(key, ResultError)
	case ok:
		r.observe(key, ResultHit)
		return cached, nil
	default:
		r.observe(key, ResultMiss)
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	if err := r.SetJSON(ctx, key, value, ttl); err != nil {
		r.log.Debug("cache store failed", logger.String("key", key), logger.Error(err))
	}
	return value, nil
}
