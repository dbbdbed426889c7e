// ratelimit.go implements tiered per-IP rate limiting backed by Redis.
// Counters live in a shared store so limits hold across multiple server
// instances; the increment is a single atomic INCR, never read-then-write.
package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/campuskit/scholarbase/internal/apperror"
)

// RateLimiter builds per-tier limiting middleware over one shared Redis
// client. Paths in the exempt allow-list bypass counting entirely -- the
// list is explicit, never inferred from the path shape.
type RateLimiter struct {
	redis  *redis.Client
	exempt map[string]bool
}

// NewRateLimiter creates a limiter with the given exempt paths
// (e.g. health checks and the token-verify endpoint).
func NewRateLimiter(rdb *redis.Client, exemptPaths []string) *RateLimiter {
	exempt := make(map[string]bool, len(exemptPaths))
	for _, p := range exemptPaths {
		exempt[p] = true
	}
	return &RateLimiter{redis: rdb, exempt: exempt}
}

// Limit returns middleware enforcing max requests per client IP per window
// for the named tier. Counters use a fixed window: the first request in a
// window creates the key with an expiry, and every request increments it
// atomically. Exceeding the budget responds 429 with retry guidance and
// the standard X-RateLimit-* headers.
//
// If Redis is unreachable the limiter fails open with a warning: dropping
// legitimate traffic on a store outage is worse than briefly losing
// brute-force protection.
func (rl *RateLimiter) Limit(tier string, max int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if rl.exempt[path] {
				return next(c)
			}

			// No store, no counting. Startup already warned about this.
			if rl.redis == nil {
				return next(c)
			}

			key := "rl:" + tier + ":" + c.RealIP()
			ctx := c.Request().Context()

			// One round trip: increment, arm the window expiry if this is a
			// fresh key, and read the remaining window for the Reset header.
			pipe := rl.redis.Pipeline()
			incr := pipe.Incr(ctx, key)
			pipe.ExpireNX(ctx, key, window)
			ttl := pipe.TTL(ctx, key)
			if _, err := pipe.Exec(ctx); err != nil {
				slog.Warn("rate limiter store unavailable, failing open",
					slog.String("tier", tier),
					slog.Any("error", err),
				)
				return next(c)
			}

			count := incr.Val()
			remaining := int64(max) - count
			if remaining < 0 {
				remaining = 0
			}

			reset := time.Now().Add(ttl.Val()).Unix()
			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(max))
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(reset, 10))

			if count > int64(max) {
				slog.Warn("rate limit exceeded",
					slog.String("tier", tier),
					slog.String("ip", c.RealIP()),
					slog.String("path", path),
				)
				return apperror.NewTooManyRequests("Too many requests, please try again later")
			}

			return next(c)
		}
	}
}
