package evaluation

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket bounding requests to a remote evaluator
type RateLimiter struct {
	capacity   float64
	tokens     float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mutex      sync.Mutex
	now        func() time.Time
}

// NewRateLimiter creates a limiter allowing perSecond requests with bursts
// of up to burst requests. The bucket starts full.
func NewRateLimiter(perSecond, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		capacity:   float64(burst),
		tokens:     float64(burst),
		refillRate: float64(perSecond),
		lastRefill: time.Now(),
		now:        time.Now,
	}
}

// Allow takes a token when one is available
func (rl *RateLimiter) Allow() bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refillTokens()
	if rl.tokens >= 1 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is done
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if rl.Allow() {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rl.waitTime()):
		}
	}
}

// refillTokens adds tokens for the time elapsed since the last refill.
// Callers hold the mutex.
func (rl *RateLimiter) refillTokens() {
	now := rl.now()
	elapsed := now.Sub(rl.lastRefill).Seconds()
	if elapsed <= 0 {
		return
	}
	rl.tokens += elapsed * rl.refillRate
	if rl.tokens > rl.capacity {
		rl.tokens = rl.capacity
	}
	rl.lastRefill = now
}

// waitTime estimates how long until the next token
func (rl *RateLimiter) waitTime() time.Duration {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	rl.refillTokens()
	if rl.tokens >= 1 || rl.refillRate <= 0 {
		return time.Millisecond
	}
	missing := 1 - rl.tokens
	return time.Duration(missing/rl.refillRate*float64(time.Second)) + time.Millisecond
}
