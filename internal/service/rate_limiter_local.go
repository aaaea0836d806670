package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	localLimiterTTL        = 10 * time.Minute
	localLimiterSweepEvery = time.Minute
)

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalRateLimiter is a per-process token bucket limiter used when Redis is
// not configured. Limits are not shared between instances.
type LocalRateLimiter struct {
	mu        sync.Mutex
	entries   map[string]*localEntry
	lastSweep time.Time
	now       func() time.Time
}

var _ RateLimiter = (*LocalRateLimiter)(nil)

func NewLocalRateLimiter() *LocalRateLimiter {
	return &LocalRateLimiter{
		entries:   make(map[string]*localEntry),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// CheckLimit refills one token every window/limit, with a burst of limit.
func (l *LocalRateLimiter) CheckLimit(_ context.Context, key string, limit int, window time.Duration) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	// Limits are part of the key so one limiter can serve several policies.
	entryKey := fmt.Sprintf("%s|%d|%s", key, limit, window)
	entry, ok := l.entries[entryKey]
	if !ok {
		entry = &localEntry{limiter: rate.NewLimiter(rate.Every(window/time.Duration(limit)), limit)}
		l.entries[entryKey] = entry
	}
	entry.lastSeen = now

	if entry.limiter.AllowN(now, 1) {
		return true, now.Add(window)
	}

	r := entry.limiter.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)
	return false, now.Add(delay)
}

func (l *LocalRateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < localLimiterSweepEvery {
		return
	}
	l.lastSweep = now
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) > localLimiterTTL {
			delete(l.entries, key)
		}
	}
}
