// Package retry runs an operation under a bounded retry policy with backoff.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrExhausted is returned when every attempt failed
var ErrExhausted = errors.New("max retries exceeded")

// BackoffFunc returns how long to wait after the given failed attempt (1-based)
type BackoffFunc func(attempt int) time.Duration

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Policy configures retry behavior
type Policy struct {
	MaxAttempts int
	Backoff     BackoffFunc
	// Retryable reports whether a failed attempt may be retried. Nil retries everything.
	Retryable func(error) bool
	// Sleep defaults to a context-aware timer.
	Sleep SleepFunc
}

// Exponential waits factor^attempt seconds
func Exponential(factor float64) BackoffFunc {
	return func(attempt int) time.Duration {
		return time.Duration(math.Pow(factor, float64(attempt)) * float64(time.Second))
	}
}

// Doubling waits base, 2*base, 4*base, ... capped at maxDelay when maxDelay > 0
func Doubling(base, maxDelay time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		delay := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
		if maxDelay > 0 && delay > maxDelay {
			delay = maxDelay
		}
		return delay
	}
}

// Sleep is the default SleepFunc
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do calls fn until it succeeds, a non-retryable error occurs, or MaxAttempts is
// reached. The wait happens between attempts only, never after the last one.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		var delay time.Duration
		if p.Backoff != nil {
			delay = p.Backoff(attempt)
		}
		if err := sleep(ctx, delay); err != nil {
			return fmt.Errorf("retry interrupted after attempt %d: %w", attempt, err)
		}
	}

	return fmt.Errorf("%w after %d attempts: %w", ErrExhausted, attempts, lastErr)
}
