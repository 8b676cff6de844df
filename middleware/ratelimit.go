package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/dmitrymomot/maw"
)

// RateLimiter is a stateful token-bucket handler: configuration captured at
// construction, counters shared across every request it serves. Because the
// same instance is hit concurrently by many request chains, its bucket map is
// guarded internally; the engine itself never synchronizes handler state.
//
// Register it like any other middleware:
//
//	r.Use(middleware.NewRateLimiter(10, 20))
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	rate    float64 // tokens refilled per second
	burst   float64 // bucket capacity
	keyFunc func(c *maw.Context) string
	now     func() time.Time
}

type bucket struct {
	tokens float64
	last   time.Time
}

// RateLimiterOption customizes a RateLimiter.
type RateLimiterOption func(*RateLimiter)

// WithRateLimitKey changes how requests are bucketed (default: client IP).
func WithRateLimitKey(fn func(c *maw.Context) string) RateLimiterOption {
	return func(l *RateLimiter) {
		if fn != nil {
			l.keyFunc = fn
		}
	}
}

// withRateLimitClock overrides the clock; tests only.
func withRateLimitClock(now func() time.Time) RateLimiterOption {
	return func(l *RateLimiter) {
		l.now = now
	}
}

// NewRateLimiter creates a limiter allowing rps sustained requests per second
// with the given burst, keyed by client IP unless overridden.
func NewRateLimiter(rps float64, burst int, opts ...RateLimiterOption) *RateLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}
	l := &RateLimiter{
		buckets: make(map[string]*bucket),
		rate:    rps,
		burst:   float64(burst),
		keyFunc: func(c *maw.Context) string { return c.ClientIP() },
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Serve implements maw.Handler: consume a token and continue the chain, or
// stop with 429 and a Retry-After hint.
func (l *RateLimiter) Serve(c *maw.Context) error {
	if l.allow(l.keyFunc(c)) {
		return c.Next()
	}

	retryAfter := int(1/l.rate) + 1
	c.Response().Set("Retry-After", strconv.Itoa(retryAfter))
	return maw.ErrTooManyRequests
}

func (l *RateLimiter) allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst, last: now}
		l.buckets[key] = b
	}

	b.tokens += now.Sub(b.last).Seconds() * l.rate
	if b.tokens > l.burst {
		b.tokens = l.burst
	}
	b.last = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}
