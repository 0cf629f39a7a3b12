// internal/pkg/session/rate_limiter.go
package session

import (
	"context"
	"fmt"
	"time"

	xerrors "plus-service/internal/pkg/errors"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements fixed-window counters in redis.
type RateLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

func NewRateLimiter(client *redis.Client, maxAttempts int64, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

// CheckNewsletterSignup counts an anonymous newsletter signup from ip and
// returns the attempts left in the window. Once the window is exhausted it
// returns xerrors.ErrRateLimited. Redis failures are marked
// xerrors.ErrSessionStore.
func (r *RateLimiter) CheckNewsletterSignup(ctx context.Context, ip string) (int64, error) {
	key := fmt.Sprintf("ratelimit:newsletter:%s", ip)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, xerrors.Mark(fmt.Errorf("failed to increment newsletter attempts: %w", err), xerrors.ErrSessionStore)
	}

	// Set expiration on first attempt
	if count == 1 {
		if err := r.client.Expire(ctx, key, r.window).Err(); err != nil {
			return 0, xerrors.Mark(fmt.Errorf("failed to set newsletter attempts expiry: %w", err), xerrors.ErrSessionStore)
		}
	}

	if count > r.maxAttempts {
		return 0, xerrors.ErrRateLimited
	}
	return r.maxAttempts - count, nil
}
