package ratelimitport

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/judgerunner.net/internal/config"
	"gitlab.com/judgerunner.net/internal/core/ports/primary"
	"gitlab.com/judgerunner.net/internal/core/ports/secondary"
)

const keyPrefix = "ratelimit:submit:"

var _ secondary.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a fixed-window counter kept in Redis. Every window gets its
// own key, so a counter never outlives its window.
type RateLimiter struct {
	redisClient *redis.Client
	logger      primary.Logger
	limit       int
	window      time.Duration
	now         func() time.Time
}

// NewRateLimiter creates a new Redis rate limiter
func NewRateLimiter(redisClient *redis.Client, cfg *config.RateLimitConfig, logger primary.Logger) *RateLimiter {
	window := cfg.Window
	if window <= 0 {
		window = time.Minute
	}
	return &RateLimiter{
		redisClient: redisClient,
		logger:      logger,
		limit:       cfg.Limit,
		window:      window,
		now:         time.Now,
	}
}

// Allow counts one hit for key. A non-positive limit allows everything.
func (r *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}

	bucket := r.now().UnixNano() / int64(r.window)
	redisKey := fmt.Sprintf("%s%s:%d", keyPrefix, key, bucket)

	pipe := r.redisClient.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to update rate limit counter", "key", key, "error", err)
		return false, fmt.Errorf("failed to update rate limit counter: %w", err)
	}

	count := incr.Val()
	if count > int64(r.limit) {
		r.logger.Warn("Rate limit exceeded", "key", key, "count", count, "limit", r.limit)
		return false, nil
	}
	return true, nil
}
