package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	redisURL := os.Getenv("TEST_REDIS_URL")
	if redisURL == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	opts, err := redis.ParseURL(redisURL)
	require.NoError(t, err)

	client := redis.NewClient(opts)
	t.Cleanup(func() { client.Close() })
	require.NoError(t, client.FlushDB(context.Background()).Err())
	return client
}

func TestRedisRateLimiter(t *testing.T) {
	limiter := NewRedisRateLimiter(setupTestRedis(t))
	ctx := context.Background()

	t.Run("allows requests within limit", func(t *testing.T) {
		key := "test:login:198.51.100.1"
		for i := 0; i < 3; i++ {
			allowed, _ := limiter.CheckLimit(ctx, key, 3, 10*time.Second)
			assert.True(t, allowed, "Request %d should be allowed", i+1)
		}

		allowed, resetAt := limiter.CheckLimit(ctx, key, 3, 10*time.Second)
		assert.False(t, allowed)
		assert.True(t, resetAt.After(time.Now()))
	})

	t.Run("different keys are independent", func(t *testing.T) {
		allowed, _ := limiter.CheckLimit(ctx, "test:a", 1, 10*time.Second)
		assert.True(t, allowed)
		allowed, _ = limiter.CheckLimit(ctx, "test:a", 1, 10*time.Second)
		assert.False(t, allowed)

		allowed, _ = limiter.CheckLimit(ctx, "test:b", 1, 10*time.Second)
		assert.True(t, allowed)
	})
}

func TestRedisRateLimiter_FailsClosed(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	limiter := NewRedisRateLimiter(client)
	allowed, resetAt := limiter.CheckLimit(context.Background(), "test:key", 1, time.Minute)
	assert.False(t, allowed)
	assert.True(t, resetAt.After(time.Now()))
}

func TestLocalRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter := NewLocalRateLimiter()
	limiter.now = func() time.Time { return now }
	ctx := context.Background()

	t.Run("allows a burst up to the limit", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			allowed, _ := limiter.CheckLimit(ctx, "login:1.2.3.4", 5, time.Minute)
			assert.True(t, allowed, "Request %d should be allowed", i+1)
		}

		allowed, resetAt := limiter.CheckLimit(ctx, "login:1.2.3.4", 5, time.Minute)
		assert.False(t, allowed)
		assert.WithinDuration(t, now.Add(12*time.Second), resetAt, time.Millisecond)
	})

	t.Run("refills over time", func(t *testing.T) {
		now = now.Add(13 * time.Second)
		allowed, _ := limiter.CheckLimit(ctx, "login:1.2.3.4", 5, time.Minute)
		assert.True(t, allowed)
	})

	t.Run("keys are independent", func(t *testing.T) {
		allowed, _ := limiter.CheckLimit(ctx, "login:5.6.7.8", 5, time.Minute)
		assert.True(t, allowed)
	})

	t.Run("idle entries are swept", func(t *testing.T) {
		now = now.Add(localLimiterTTL + localLimiterSweepEvery)
		limiter.CheckLimit(ctx, "contact:9.9.9.9", 3, time.Minute)
		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		assert.Len(t, limiter.entries, 1)
	})
}
