package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"taskboard/internal/logger"
	"taskboard/internal/metrics"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window limiter keyed by client IP. It uses Redis
// INCR/EXPIRE when a client is configured and an in-memory counter otherwise.
type RateLimiter struct {
	redis  *redis.Client
	memory *memoryLimiter
}

// NewRateLimiter connects to Redis at addr. An empty addr or a failed ping
// leaves the limiter on its in-memory fallback so the server stays available.
func NewRateLimiter(addr, password string, db int) *RateLimiter {
	rl := &RateLimiter{memory: newMemoryLimiter()}
	if addr == "" {
		return rl
	}

	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory rate limiting", "addr", addr, "error", err)
		_ = client.Close()
		return rl
	}

	rl.redis = client
	return rl
}

// Redis reports whether the limiter is backed by Redis.
func (rl *RateLimiter) Redis() bool {
	return rl.redis != nil
}

func (rl *RateLimiter) Close() error {
	if rl.redis == nil {
		return nil
	}
	return rl.redis.Close()
}

// Limit allows at most maxRequests per window per client IP.
// Redis key format: rl:<window_seconds>:<ip>
func (rl *RateLimiter) Limit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident := c.ClientIP()
		endpoint := c.FullPath()

		var allowed bool
		if rl.redis != nil {
			key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
			ctx := c.Request.Context()

			val, err := rl.redis.Incr(ctx, key).Result()
			if err != nil {
				// fail-open
				c.Header("X-RateLimit-Error", "redis-error")
				c.Next()
				return
			}
			if val == 1 {
				rl.redis.Expire(ctx, key, window)
			}
			allowed = val <= int64(maxRequests)
		} else {
			allowed = rl.memory.allow(ident, maxRequests, window)
		}

		if !allowed {
			metrics.RLBlocked.WithLabelValues(endpoint).Inc()
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}

		metrics.RLRequests.WithLabelValues(endpoint).Inc()
		c.Next()
	}
}
