package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter defines the interface for rate limiting
type Limiter interface {
	// Wait blocks until the rate limit allows another request, or ctx is done
	Wait(ctx context.Context) error
	// Reset resets the rate limiter state
	Reset()
}

// Interval enforces a minimum gap between the starts of consecutive
// requests. The first call never waits.
type Interval struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
	mu       sync.Mutex
}

// NewInterval creates a limiter that spaces request starts by at least d
func NewInterval(d time.Duration) *Interval {
	return &Interval{interval: d, now: time.Now}
}

// Wait sleeps for whatever remains of the interval since the previous
// request started, then records the current time as this request's start.
func (iv *Interval) Wait(ctx context.Context) error {
	iv.mu.Lock()
	defer iv.mu.Unlock()

	if !iv.last.IsZero() {
		if remaining := iv.interval - iv.now().Sub(iv.last); remaining > 0 {
			if err := sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}

	iv.last = iv.now()
	return nil
}

// Reset forgets the previous request so the next Wait returns immediately
func (iv *Interval) Reset() {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	iv.last = time.Time{}
}

// TokenBucket implements a token bucket rate limiter
type TokenBucket struct {
	capacity     int           // Maximum number of tokens
	tokens       int           // Current number of tokens
	refillPeriod time.Duration // Period after which bucket is refilled
	lastRefill   time.Time     // Last time the bucket was refilled
	mu           sync.Mutex
}

// NewTokenBucket creates a new token bucket rate limiter
func NewTokenBucket(capacity int, refillPeriod time.Duration) *TokenBucket {
	return &TokenBucket{
		capacity:     capacity,
		tokens:       capacity,
		refillPeriod: refillPeriod,
		lastRefill:   time.Now(),
	}
}

// Allow takes a token if one is available
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()

	if tb.tokens > 0 {
		tb.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available
func (tb *TokenBucket) Wait(ctx context.Context) error {
	for !tb.Allow() {
		tb.mu.Lock()
		untilRefill := tb.refillPeriod - time.Since(tb.lastRefill)
		tb.mu.Unlock()

		if untilRefill <= 0 {
			untilRefill = 100 * time.Millisecond
		}
		if err := sleep(ctx, untilRefill); err != nil {
			return err
		}
	}
	return nil
}

// Reset resets the token bucket to full capacity
func (tb *TokenBucket) Reset() {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.tokens = tb.capacity
	tb.lastRefill = time.Now()
}

// refill adds tokens based on elapsed time
func (tb *TokenBucket) refill() {
	now := time.Now()
	if now.Sub(tb.lastRefill) >= tb.refillPeriod {
		tb.tokens = tb.capacity
		tb.lastRefill = now
	}
}

// Chain waits on each limiter in order
type Chain []Limiter

// Wait waits on every limiter in the chain
func (c Chain) Wait(ctx context.Context) error {
	for _, l := range c {
		if err := l.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Reset resets every limiter in the chain
func (c Chain) Reset() {
	for _, l := range c {
		l.Reset()
	}
}

// Unlimited never waits
type Unlimited struct{}

func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }
func (Unlimited) Reset()                         {}

// ForConfig builds the limiter used by the fetcher: a minimum interval
// between requests, optionally capped by a per-minute token bucket.
func ForConfig(minInterval time.Duration, requestsPerMinute int) Limiter {
	chain := Chain{NewInterval(minInterval)}
	if requestsPerMinute > 0 {
		chain = append(chain, NewTokenBucket(requestsPerMinute, time.Minute))
	}
	if len(chain) == 1 {
		return chain[0]
	}
	return chain
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
