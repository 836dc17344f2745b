package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// windowScript increments the fixed-window counter and returns the count and
// the window's remaining lifetime in milliseconds.
const windowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`

// RedisStore counts requests in a fixed window shared by every instance.
// Any Redis error allows the request.
type RedisStore struct {
	client  *redis.Client
	script  *redis.Script
	prefix  string
	timeout time.Duration
}

// NewRedisStore returns nil for a nil client so callers can pass it to
// WithStore unconditionally.
func NewRedisStore(client *redis.Client) *RedisStore {
	if client == nil {
		return nil
	}
	return &RedisStore{
		client:  client,
		script:  redis.NewScript(windowScript),
		prefix:  "ratelimit:",
		timeout: 250 * time.Millisecond,
	}
}

func (s *RedisStore) Take(key string, rule EndpointConfig) Info {
	open := Info{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit}
	if s == nil || s.client == nil || rule.Limit <= 0 || rule.Window <= 0 {
		return open
	}

	ttl := max(rule.Window.Milliseconds(), 1)
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.script.Run(ctx, s.client, []string{s.prefix + key}, ttl).Int64Slice()
	if err != nil || len(res) != 2 {
		return open
	}
	count, pttl := res[0], res[1]
	if pttl < 0 {
		pttl = ttl
	}

	reset := time.Duration(pttl) * time.Millisecond
	info := Info{
		Allowed:   count <= int64(rule.Limit),
		Limit:     rule.Limit,
		Remaining: max(rule.Limit-int(count), 0),
		ResetTime: time.Now().Add(reset),
	}
	if !info.Allowed {
		info.RetryAfter = reset
	}
	return info
}
