package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"simagis-server/internal/apperrors"
	"simagis-server/internal/config"
	"simagis-server/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter enforces a fixed-window request quota per client. Counters
// live in redis when a client is provided, otherwise in process memory.
type RateLimiter struct {
	rdb    *redis.Client
	window time.Duration
	max    int

	mu     sync.Mutex
	local  map[string]*localWindow
	lastGC time.Time
}

type localWindow struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(rdb *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		window: cfg.Window,
		max:    cfg.MaxRequests,
		local:  map[string]*localWindow{},
		lastGC: time.Now(),
	}
}

// clientKey buckets by user when authenticated, else by client IP, so one
// noisy tenant cannot exhaust the shared quota.
func clientKey(c *gin.Context) string {
	if userID := c.GetUint("userID"); userID > 0 {
		return fmt.Sprintf("user:%d", userID)
	}
	return "ip:" + c.ClientIP()
}

// Middleware counts the request and rejects with 429 once the window quota
// is spent. Redis failures let the request through; availability wins over
// strict limiting.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := clientKey(c)

		var (
			count     int
			remaining time.Duration
			err       error
		)
		if rl.rdb != nil {
			count, remaining, err = rl.incrRedis(c.Request.Context(), key)
			if err != nil {
				log.Printf("rate limiter unavailable, allowing request: %v", err)
				c.Next()
				return
			}
		} else {
			count, remaining = rl.incrLocal(key)
		}

		left := rl.max - count
		if left < 0 {
			left = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(left))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(remaining).Unix(), 10))

		if count > rl.max {
			utils.ErrorResponse(c, http.StatusTooManyRequests, apperrors.CodeTooManyRequests, "Too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) incrRedis(ctx context.Context, key string) (int, time.Duration, error) {
	redisKey := "ratelimit:" + key

	count, err := rl.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, 0, err
	}
	if count == 1 {
		if err := rl.rdb.Expire(ctx, redisKey, rl.window).Err(); err != nil {
			return 0, 0, err
		}
	}

	ttl, err := rl.rdb.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = rl.window
	}
	return int(count), ttl, nil
}

func (rl *RateLimiter) incrLocal(key string) (int, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.lastGC) > rl.window {
		for k, w := range rl.local {
			if now.After(w.resetAt) {
				delete(rl.local, k)
			}
		}
		rl.lastGC = now
	}

	w, ok := rl.local[key]
	if !ok || now.After(w.resetAt) {
		w = &localWindow{resetAt: now.Add(rl.window)}
		rl.local[key] = w
	}
	w.count++
	return w.count, time.Until(w.resetAt)
}
