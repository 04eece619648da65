package auth

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// LoginLimiter throttles login attempts per client IP with a fixed window
// counter in Redis. When Redis is unavailable the limiter fails open: valid
// credentials must keep working even with no redis around.
type LoginLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewLoginLimiter constructs the limiter. A nil client or non-positive limit
// disables throttling.
func NewLoginLimiter(client *redis.Client, limit, windowSeconds int, logger *zap.Logger) *LoginLimiter {
	return &LoginLimiter{
		client: client,
		limit:  limit,
		window: time.Duration(windowSeconds) * time.Second,
		logger: logger,
	}
}

// Allow reports whether another login attempt from ip may proceed.
func (l *LoginLimiter) Allow(ctx context.Context, ip string) bool {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true
	}

	key := "login_attempts:" + ip
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("login limiter unavailable", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("login limiter expire failed", zap.Error(err))
		}
	}
	return count <= int64(l.limit)
}
