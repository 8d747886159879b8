// Package retry provides the single backoff policy shared by page fetching,
// wildcard probing and candidate resolution.
package retry

import (
	"context"
	"math"
	"time"

	"subsift/internal/platform/errors"
)

// Policy describes a bounded retry with exponential backoff.
type Policy struct {
	// MaxAttempts is the total number of attempts (first try included).
	// Values below 1 are treated as 1.
	MaxAttempts int

	// BaseDelay is the backoff before the second attempt.
	// Backoff grows by Multiplier after each failed attempt.
	BaseDelay time.Duration

	// MaxDelay caps the backoff between attempts.
	MaxDelay time.Duration

	// Multiplier for exponential growth. Values below 1.0 become 2.0.
	Multiplier float64

	// Retryable decides whether an error is worth another attempt.
	// Nil means errors.IsTransient.
	Retryable func(error) bool
}

// DefaultPolicy matches the bulk resolution settings: 3 attempts,
// 1s base backoff, capped at 30s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		Multiplier:  2.0,
	}
}

// ProbePolicy is the short variant used by wildcard detection, where a
// failure just means "no wildcard detected".
func ProbePolicy() Policy {
	return Policy{
		MaxAttempts: 2,
		BaseDelay:   250 * time.Millisecond,
		MaxDelay:    1 * time.Second,
		Multiplier:  2.0,
	}
}

func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = 1 * time.Second
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 60 * time.Second
	}
	if p.Multiplier < 1.0 {
		p.Multiplier = 2.0
	}
	if p.Retryable == nil {
		p.Retryable = errors.IsTransient
	}
	return p
}

// Backoff returns the delay before attempt n+1 (n is zero-based).
func (p Policy) Backoff(attempt int) time.Duration {
	p = p.normalized()
	backoff := time.Duration(float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt)))
	if backoff > p.MaxDelay {
		backoff = p.MaxDelay
	}
	return backoff
}

// Do runs fn until it succeeds, the error stops being retryable, attempts
// run out, or ctx is cancelled. The returned error is the last one from fn,
// except on cancellation where the context error wins.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p = p.normalized()

	var lastErr error
	for attempt := 0; attempt < p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !p.Retryable(lastErr) {
			return lastErr
		}
		if attempt == p.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Backoff(attempt)):
		}
	}
	return lastErr
}
