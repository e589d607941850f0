package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter answers whether a client key may proceed within the current
// fixed window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type redisLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
}

// NewRedis builds a fixed-window limiter backed by INCR + EXPIRE. The
// expiry is set only when the counter is created, so the window does not
// slide on repeat attempts.
func NewRedis(rdb *redis.Client, limit int, window time.Duration) Limiter {
	return &redisLimiter{rdb: rdb, limit: limit, window: window}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	n, err := l.rdb.Incr(ctx, "ratelimit:"+key).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, "ratelimit:"+key, l.window).Err(); err != nil {
			return false, err
		}
	}
	return n <= int64(l.limit), nil
}

type memoryWindow struct {
	count   int
	resetAt time.Time
}

type memoryLimiter struct {
	mu      sync.Mutex
	windows map[string]memoryWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

// NewMemory builds an in-process limiter used when REDIS_ADDR is not
// configured. Counts are lost on restart, which is acceptable for a
// single-instance deployment.
func NewMemory(limit int, window time.Duration) Limiter {
	return &memoryLimiter{
		windows: make(map[string]memoryWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		l.windows[key] = memoryWindow{count: 1, resetAt: now.Add(l.window)}
		return true, nil
	}

	w.count++
	l.windows[key] = w
	return w.count <= l.limit, nil
}
