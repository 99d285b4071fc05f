package ratelimitport

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"gitlab.com/judgerunner.net/internal/adapter/logging"
	"gitlab.com/judgerunner.net/internal/config"
)

func newTestLimiter(t *testing.T, limit int) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := NewRateLimiter(client, &config.RateLimitConfig{Limit: limit, Window: time.Minute}, logging.NewNopLogger())
	fixed := time.Date(2026, 1, 1, 12, 0, 30, 0, time.UTC)
	l.now = func() time.Time { return fixed }
	return l, mr
}

func TestRateLimiter_Allow(t *testing.T) {
	l, _ := newTestLimiter(t, 2)
	ctx := context.Background()

	for i, want := range []bool{true, true, false, false} {
		got, err := l.Allow(ctx, "alice")
		if err != nil {
			t.Fatalf("hit %d: %v", i, err)
		}
		if got != want {
			t.Errorf("hit %d: allowed = %v, want %v", i, got, want)
		}
	}

	if ok, _ := l.Allow(ctx, "bob"); !ok {
		t.Error("keys must be counted independently")
	}
}

func TestRateLimiter_NewWindow(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	if ok, _ := l.Allow(ctx, "alice"); !ok {
		t.Fatal("first hit must pass")
	}
	if ok, _ := l.Allow(ctx, "alice"); ok {
		t.Fatal("second hit in the same window must be rejected")
	}

	next := l.now().Add(time.Minute)
	l.now = func() time.Time { return next }
	if ok, _ := l.Allow(ctx, "alice"); !ok {
		t.Error("hit in the next window must pass")
	}
}

func TestRateLimiter_KeysExpire(t *testing.T) {
	l, mr := newTestLimiter(t, 5)
	if _, err := l.Allow(context.Background(), "alice"); err != nil {
		t.Fatalf("allow: %v", err)
	}

	keys := mr.Keys()
	if len(keys) != 1 {
		t.Fatalf("keys = %v", keys)
	}
	if ttl := mr.TTL(keys[0]); ttl <= 0 || ttl > time.Minute {
		t.Errorf("ttl = %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if len(mr.Keys()) != 0 {
		t.Error("counter outlived its window")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	l, mr := newTestLimiter(t, 0)
	for i := 0; i < 10; i++ {
		if ok, err := l.Allow(context.Background(), "alice"); !ok || err != nil {
			t.Fatalf("hit %d = %v, %v", i, ok, err)
		}
	}
	if len(mr.Keys()) != 0 {
		t.Error("disabled limiter must not touch redis")
	}
}

func TestRateLimiter_RedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 5)
	mr.Close()

	if _, err := l.Allow(context.Background(), "alice"); err == nil {
		t.Error("expected error when redis is unreachable")
	}
}
