// Package ratelimit counts requests per key in fixed windows.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/01moynul/sweetshop-golang/internal/config"
)

// Limiter reports whether one more request for key fits in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// New returns a Redis-backed limiter when cfg names a Redis server and an
// in-process one otherwise.
func New(ctx context.Context, cfg config.RateLimitConfig) (Limiter, func() error, error) {
	if cfg.RedisURL == "" {
		slog.Info("rate limiter using in-process counters")
		return NewMemoryLimiter(cfg.Requests, cfg.Window), func() error { return nil }, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("rate limiter using redis", "addr", opts.Addr)
	return NewRedisLimiter(client, cfg.Requests, cfg.Window), client.Close, nil
}

// RedisLimiter keeps one counter per key that expires with the window, so
// several API instances share the same budget.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func NewRedisLimiter(client *redis.Client, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, window: window, prefix: "sweetshop:rate:"}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key

	// INCR and EXPIRE NX run in one MULTI so a counter can never be left
	// without a TTL. NX keeps an open window from being extended.
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, err
	}

	return incr.Val() <= int64(l.limit), nil
}

type counter struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is the single-process fallback.
type MemoryLimiter struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	counters map[string]*counter
	now      func() time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		limit:    limit,
		window:   window,
		counters: make(map[string]*counter),
		now:      time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.counters[key]
	if !ok || !now.Before(c.resetAt) {
		l.sweep(now)
		c = &counter{resetAt: now.Add(l.window)}
		l.counters[key] = c
	}

	c.count++
	return c.count <= l.limit, nil
}

// sweep drops expired windows. Callers hold l.mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for k, c := range l.counters {
		if !now.Before(c.resetAt) {
			delete(l.counters, k)
		}
	}
}
