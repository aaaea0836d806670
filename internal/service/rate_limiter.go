package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// slidingWindowScript keeps one sorted-set member per admitted event, scored
// in milliseconds. Returns {allowed, resetAtMillis}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local nowMs = tonumber(ARGV[1])
local windowMs = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call('ZREMRANGEBYSCORE', key, '-inf', nowMs - windowMs)

if redis.call('ZCARD', key) >= limit then
    local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
    if #oldest >= 2 then
        return {0, tonumber(oldest[2]) + windowMs}
    end
    return {0, nowMs + windowMs}
end

redis.call('ZADD', key, nowMs, nowMs .. ':' .. redis.call('INCR', key .. ':seq'))
redis.call('PEXPIRE', key, windowMs)
redis.call('PEXPIRE', key .. ':seq', windowMs)
return {1, nowMs + windowMs}
`)

const rateLimitKeyPrefix = "folio:ratelimit:"

// RateLimiter admits at most limit events per key within window.
type RateLimiter interface {
	CheckLimit(ctx context.Context, key string, limit int, window time.Duration) (allowed bool, resetAt time.Time)
}

// RedisRateLimiter is a sliding-window limiter shared by every instance that
// talks to the same Redis. It fails closed.
type RedisRateLimiter struct {
	client *redis.Client
	now    func() time.Time
}

var _ RateLimiter = (*RedisRateLimiter)(nil)

func NewRedisRateLimiter(client *redis.Client) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, now: time.Now}
}

func (rl *RedisRateLimiter) CheckLimit(
	ctx context.Context,
	key string,
	limit int,
	window time.Duration,
) (allowed bool, resetAt time.Time) {
	now := rl.now()

	result, err := slidingWindowScript.Run(
		ctx,
		rl.client,
		[]string{rateLimitKeyPrefix + key},
		now.UnixMilli(),
		window.Milliseconds(),
		limit,
	).Int64Slice()
	if err != nil || len(result) != 2 {
		log.Warn().
			Err(err).
			Str("key", key).
			Msg("rate limit check failed, denying request")
		return false, now.Add(window)
	}

	return result[0] == 1, time.UnixMilli(result[1])
}
