// Package rate provides a token bucket limiter used to pace outbound
// dataset requests per source.
package rate

import (
	"context"
	"sync"
	"time"
)

// Limiter implements a token bucket. It supports blocking (Wait) and
// non-blocking (Allow) acquisition.
type Limiter struct {
	mu     sync.Mutex
	rate   float64 // tokens per second
	burst  int     // bucket capacity
	tokens float64
	last   time.Time
}

// New creates a limiter that refills at rate tokens per second with the
// given burst capacity. The bucket starts full.
//
// Example:
//   limiter := rate.New(2, 1) // 2 req/s, no burst
func New(rate float64, burst int) *Limiter {
	if rate <= 0 {
		rate = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		rate:   rate,
		burst:  burst,
		tokens: float64(burst),
		last:   time.Now(),
	}
}

// Wait blocks until a token is available or ctx is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	for {
		ok, wait := l.take()
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// Allow reports whether a token is available right now, consuming it if so.
func (l *Limiter) Allow() bool {
	ok, _ := l.take()
	return ok
}

// take consumes a token when available, otherwise returns how long until
// the next one accumulates.
func (l *Limiter) take() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	if l.tokens >= 1 {
		l.tokens--
		return true, 0
	}
	missing := 1.0 - l.tokens
	return false, time.Duration(missing / l.rate * float64(time.Second))
}

// SetRate changes the refill rate.
func (l *Limiter) SetRate(rate float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if rate <= 0 {
		rate = 1
	}
	l.advance(time.Now())
	l.rate = rate
}

// SetBurst changes the bucket capacity, capping stored tokens to it.
func (l *Limiter) SetBurst(burst int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if burst <= 0 {
		burst = 1
	}
	l.advance(time.Now())
	l.burst = burst
	if l.tokens > float64(burst) {
		l.tokens = float64(burst)
	}
}

// Tokens returns the currently available tokens.
func (l *Limiter) Tokens() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.advance(time.Now())
	return l.tokens
}

// Rate returns the refill rate in tokens per second.
func (l *Limiter) Rate() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rate
}

// Burst returns the bucket capacity.
func (l *Limiter) Burst() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.burst
}

// advance refills tokens for elapsed time. Caller holds l.mu.
func (l *Limiter) advance(now time.Time) {
	elapsed := now.Sub(l.last).Seconds()
	l.tokens += elapsed * l.rate
	if l.tokens > float64(l.burst) {
		l.tokens = float64(l.burst)
	}
	l.last = now
}
