package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-biodata-backend/internal/delivery/http/response"
	"go-biodata-backend/pkg/logger"
	"go-biodata-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	// Requests per window
	Limit int
	// Time window duration
	Window time.Duration
	// Custom key extractor (default: IP-based)
	KeyFunc func(*gin.Context) string
	// Key prefix for Redis (default: "rl:ip:")
	KeyPrefix string
}

// DefaultRateLimitConfig returns the global per-IP limit
func DefaultRateLimitConfig(limit int, window time.Duration) RateLimitConfig {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return RateLimitConfig{
		Limit:     limit,
		Window:    window,
		KeyPrefix: "rl:ip:",
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	}
}

// rateLimitEntry tracks request count for a key (in-memory fallback).
// An evicted entry has been removed from the map and must not be counted on.
type rateLimitEntry struct {
	count   int
	resetAt time.Time
	evicted bool
	mu      sync.Mutex
}

// Lua script for atomic increment with TTL on first set
// KEYS[1] = counter key
// ARGV[1] = TTL in seconds
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

// RateLimiter counts requests per key in Redis, falling back to process
// memory when Redis is not configured or unreachable.
type RateLimiter struct {
	config RateLimitConfig
	redis  *goredis.Client
	local  sync.Map
	now    func() time.Time
}

// NewRateLimiter accepts a nil client. Expired in-memory entries are swept
// until ctx is cancelled.
func NewRateLimiter(ctx context.Context, client *goredis.Client, config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	rl := &RateLimiter{
		config: config,
		redis:  client,
		now:    time.Now,
	}
	go rl.cleanup(ctx, 5*time.Minute)
	return rl
}

// Middleware enforces the limit and sets the X-RateLimit-* headers
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		fullKey := rl.config.KeyPrefix + rl.config.KeyFunc(c)

		count, resetAt := rl.hit(c.Request.Context(), fullKey)

		remaining := rl.config.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > rl.config.Limit {
			retryAfter := int(resetAt.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			security.DefaultLogger().LogRateLimitTriggered(
				c.Request.Context(),
				c.ClientIP(),
				c.GetHeader("User-Agent"),
				c.GetString(RequestIDKey),
				c.Request.URL.Path,
			)

			response.Abort(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) hit(ctx context.Context, key string) (int, time.Time) {
	if rl.redis != nil {
		count, resetAt, err := rl.hitRedis(ctx, key)
		if err == nil {
			return count, resetAt
		}
		// Fail open to the local counter
		logger.Log.WarnContext(ctx, "Rate limit store unavailable, using in-memory fallback", "error", err)
	}
	return rl.hitLocal(key)
}

// hitRedis checks rate limit using Redis with atomic Lua script
func (rl *RateLimiter) hitRedis(ctx context.Context, key string) (int, time.Time, error) {
	ttlSeconds := int(rl.config.Window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := rl.redis.Eval(ctx, rateLimitLuaScript, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	// Parse result [count, ttl]
	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

// hitLocal checks rate limit using the in-memory store
func (rl *RateLimiter) hitLocal(key string) (int, time.Time) {
	now := rl.now()
	for {
		entryI, _ := rl.local.LoadOrStore(key, &rateLimitEntry{
			resetAt: now.Add(rl.config.Window),
		})
		entry := entryI.(*rateLimitEntry)

		entry.mu.Lock()
		if entry.evicted {
			// Swept between LoadOrStore and Lock, retry on a fresh entry
			rl.local.CompareAndDelete(key, entry)
			entry.mu.Unlock()
			continue
		}

		// Reset if window expired
		if now.After(entry.resetAt) {
			entry.count = 0
			entry.resetAt = now.Add(rl.config.Window)
		}

		entry.count++
		count, resetAt := entry.count, entry.resetAt
		entry.mu.Unlock()
		return count, resetAt
	}
}

func (rl *RateLimiter) cleanup(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep(rl.now())
		}
	}
}

// sweep drops entries whose window ended before now. Only the entry that was
// inspected is removed, a replacement stored meanwhile is kept.
func (rl *RateLimiter) sweep(now time.Time) {
	rl.local.Range(func(key, value interface{}) bool {
		entry := value.(*rateLimitEntry)
		entry.mu.Lock()
		if now.After(entry.resetAt) {
			entry.evicted = true
			rl.local.CompareAndDelete(key, entry)
		}
		entry.mu.Unlock()
		return true
	})
}
