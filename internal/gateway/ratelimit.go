package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitPrefix = "RATELIMIT:"

// RateLimiter counts requests per key and client IP in fixed windows.
type RateLimiter struct {
	rdb    *redis.Client
	count  int64
	period time.Duration
}

func NewRateLimiter(rdb *redis.Client, count int64, period time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, count: count, period: period}
}

// Allow records one request and reports whether it fits in the window.
// When it does not, retryAfter is the time left until the window resets.
func (l *RateLimiter) Allow(ctx context.Context, key, ip string) (bool, time.Duration, error) {
	redisKey := rateLimitPrefix + key + ":" + ip

	current, err := l.rdb.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment rate limit: %w", err)
	}
	// 첫 요청에서 윈도우 시작
	if current == 1 {
		if err := l.rdb.Expire(ctx, redisKey, l.period).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	if current <= l.count {
		return true, 0, nil
	}

	ttl, err := l.rdb.TTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		ttl = l.period
	}
	return false, ttl, nil
}
