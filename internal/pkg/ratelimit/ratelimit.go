package ratelimit

import (
	"sync"
	"time"
)

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // > 0 only when the call was rejected
}

type bucket struct {
	resetAt time.Time
	count   int
}

// Limiter is a fixed-window in-process rate limiter keyed by arbitrary
// strings. Windows reset at fixed boundaries, so bursts are possible across a
// boundary; the limiter only bounds worst-case cost exposure, it makes no
// fairness guarantees. State is process-local and lost on restart.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

// New creates an empty limiter.
func New() *Limiter {
	return &Limiter{
		buckets: map[string]*bucket{},
		now:     time.Now,
	}
}

// NewWithClock creates a limiter with an injected clock, for tests.
func NewWithClock(now func() time.Time) *Limiter {
	l := New()
	l.now = now
	return l
}

// Allow consumes one unit from the key's bucket. It never fails; rejection is
// reported through Result.Allowed with RetryAfter set to the time remaining
// until the window resets, floored to whole seconds and never below one.
func (l *Limiter) Allow(key string, limit int, window time.Duration) Result {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok || !now.Before(b.resetAt) {
		l.buckets[key] = &bucket{resetAt: now.Add(window), count: 1}
		return Result{Allowed: true, Limit: limit, Remaining: limit - 1}
	}

	if b.count >= limit {
		retry := b.resetAt.Sub(now).Truncate(time.Second)
		if retry < time.Second {
			retry = time.Second
		}
		return Result{Allowed: false, Limit: limit, RetryAfter: retry}
	}

	b.count++
	remaining := limit - b.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: true, Limit: limit, Remaining: remaining}
}

// Sweep drops expired buckets to keep the table bounded. Callers may run it
// periodically; correctness does not depend on it.
func (l *Limiter) Sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if !now.Before(b.resetAt) {
			delete(l.buckets, key)
		}
	}
}
