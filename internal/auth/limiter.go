package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter throttles failed login attempts per email and source IP
// using Redis counters. Redis outages fail open: a broken limiter must not
// lock everyone out.
type AttemptLimiter struct {
	client *redis.Client
	logger *slog.Logger
	max    int
	window time.Duration
}

// NewAttemptLimiter constructs an AttemptLimiter.
func NewAttemptLimiter(client *redis.Client, logger *slog.Logger, max int, window time.Duration) *AttemptLimiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttemptLimiter{client: client, logger: logger, max: max, window: window}
}

// TooMany reports whether the email/IP pair exceeded the failure budget.
func (l *AttemptLimiter) TooMany(ctx context.Context, email, ip string) bool {
	if l == nil || l.client == nil {
		return false
	}
	count, err := l.client.Get(ctx, l.key(email, ip)).Int()
	if err != nil {
		if err != redis.Nil {
			l.logger.Warn("attempt limiter read failed", slog.Any("error", err))
		}
		return false
	}
	return count >= l.max
}

// NoteFailure records one failed attempt.
func (l *AttemptLimiter) NoteFailure(ctx context.Context, email, ip string) {
	if l == nil || l.client == nil {
		return
	}
	key := l.key(email, ip)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("attempt limiter incr failed", slog.Any("error", err))
		return
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			l.logger.Warn("attempt limiter expire failed", slog.Any("error", err))
		}
	}
}

// Reset clears the counter after a successful login.
func (l *AttemptLimiter) Reset(ctx context.Context, email, ip string) {
	if l == nil || l.client == nil {
		return
	}
	if err := l.client.Del(ctx, l.key(email, ip)).Err(); err != nil {
		l.logger.Warn("attempt limiter reset failed", slog.Any("error", err))
	}
}

func (l *AttemptLimiter) key(email, ip string) string {
	return fmt.Sprintf("login:attempts:%s:%s", email, ip)
}
