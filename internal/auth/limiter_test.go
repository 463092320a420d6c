package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	_ "github.com/minexboard/minex/testing"
)

func newTestLimiter(t *testing.T, max int) *AttemptLimiter {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewAttemptLimiter(client, nil, max, 15*time.Minute)
}

func TestLimiterBlocksAfterMaxFailures(t *testing.T) {
	limiter := newTestLimiter(t, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if limiter.TooMany(ctx, "a@b.test", "10.0.0.1") {
			t.Fatalf("blocked too early at attempt %d", i)
		}
		limiter.NoteFailure(ctx, "a@b.test", "10.0.0.1")
	}
	if !limiter.TooMany(ctx, "a@b.test", "10.0.0.1") {
		t.Fatalf("expected block after 3 failures")
	}
	// Different IP keeps its own budget.
	if limiter.TooMany(ctx, "a@b.test", "10.0.0.2") {
		t.Fatalf("unrelated IP should not be blocked")
	}
}

func TestLimiterResetClearsBudget(t *testing.T) {
	limiter := newTestLimiter(t, 1)
	ctx := context.Background()

	limiter.NoteFailure(ctx, "a@b.test", "10.0.0.1")
	if !limiter.TooMany(ctx, "a@b.test", "10.0.0.1") {
		t.Fatalf("expected block")
	}
	limiter.Reset(ctx, "a@b.test", "10.0.0.1")
	if limiter.TooMany(ctx, "a@b.test", "10.0.0.1") {
		t.Fatalf("expected budget cleared after reset")
	}
}

func TestLimiterFailsOpenWithoutRedis(t *testing.T) {
	limiter := NewAttemptLimiter(nil, nil, 1, time.Minute)
	if limiter.TooMany(context.Background(), "a@b.test", "10.0.0.1") {
		t.Fatalf("nil client must fail open")
	}
}
