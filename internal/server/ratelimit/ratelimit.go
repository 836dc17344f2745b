// Package ratelimit limits requests per client and endpoint. Counting happens
// in a Store: in-process token buckets by default, or a shared Redis window
// when several instances serve the same API.
package ratelimit

import (
	"sync"
	"time"
)

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Store counts one request for key under rule.
type Store interface {
	Take(key string, rule EndpointConfig) Info
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	Redis           bool // share counters through Redis when a client is available
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Limiter applies the configured rules to clients.
type Limiter struct {
	config *Config
	store  Store
	memory *memoryStore
}

// Option customizes a Limiter.
type Option func(*Limiter)

// WithStore replaces the in-process store.
func WithStore(s Store) Option {
	return func(l *Limiter) {
		if s != nil {
			l.store = s
		}
	}
}

// NewLimiter creates a limiter. A nil config allows 1000 requests per minute.
func NewLimiter(config *Config, opts ...Option) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    1000,
			DefaultWindow:   time.Minute,
			CleanupInterval: 5 * time.Minute,
			Whitelist:       make(map[string]bool),
			Blacklist:       make(map[string]bool),
		}
	}

	l := &Limiter{config: config}
	for _, opt := range opts {
		opt(l)
	}
	if l.store == nil {
		cleanup := time.Duration(0)
		if config.Enabled {
			cleanup = config.CleanupInterval
		}
		l.memory = newMemoryStore(cleanup)
		l.store = l.memory
	}
	return l
}

// Allow checks if a request from clientID to endpoint is allowed.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	rule := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if rule == nil {
		rule = &EndpointConfig{
			Path:   endpoint,
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}

	// Unlimited endpoint (e.g., health check)
	if rule.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	info := l.store.Take(clientID+":"+endpoint+":"+method, *rule)
	return info.Allowed, info
}

// Stop stops background cleanup of the in-process store.
func (l *Limiter) Stop() {
	if l.memory != nil {
		l.memory.stop()
	}
}

// memoryStore keeps one token bucket per key and drops buckets idle for an hour.
type memoryStore struct {
	buckets    map[string]*TokenBucket
	lastAccess map[string]time.Time
	mu         sync.Mutex

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
	stopOnce      sync.Once
}

func newMemoryStore(cleanupInterval time.Duration) *memoryStore {
	s := &memoryStore{
		buckets:    make(map[string]*TokenBucket),
		lastAccess: make(map[string]time.Time),
	}
	if cleanupInterval > 0 {
		s.cleanupTicker = time.NewTicker(cleanupInterval)
		s.cleanupStop = make(chan struct{})
		go s.cleanup()
	}
	return s
}

func (s *memoryStore) Take(key string, rule EndpointConfig) Info {
	bucket := s.bucket(key, rule)

	allowed := bucket.allow()
	remaining, resetTime := bucket.getStatus()

	var retryAfter time.Duration
	if !allowed {
		retryAfter = max(time.Until(resetTime), 0)
	}
	return Info{
		Allowed:    allowed,
		Limit:      rule.Limit,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAfter: retryAfter,
	}
}

// bucket gets or creates the bucket for key and stamps its last access.
func (s *memoryStore) bucket(key string, rule EndpointConfig) *TokenBucket {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastAccess[key] = time.Now()
	if b, ok := s.buckets[key]; ok {
		return b
	}

	capacity := rule.Burst
	if capacity <= 0 {
		capacity = rule.Limit
	}
	b := newTokenBucket(capacity, float64(rule.Limit)/rule.Window.Seconds())
	s.buckets[key] = b
	return b
}

func (s *memoryStore) cleanup() {
	for {
		select {
		case <-s.cleanupTicker.C:
			s.evictIdle(time.Now().Add(-1 * time.Hour))
		case <-s.cleanupStop:
			return
		}
	}
}

func (s *memoryStore) evictIdle(cutoff time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, last := range s.lastAccess {
		if last.Before(cutoff) {
			delete(s.buckets, key)
			delete(s.lastAccess, key)
		}
	}
}

func (s *memoryStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.buckets)
}

func (s *memoryStore) stop() {
	s.stopOnce.Do(func() {
		if s.cleanupTicker != nil {
			s.cleanupTicker.Stop()
		}
		if s.cleanupStop != nil {
			close(s.cleanupStop)
		}
	})
}
