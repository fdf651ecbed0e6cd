package crawl

import (
	"context"
	"time"
)

// RetryPolicy retries an operation with a fixed backoff schedule and a
// retryable-failure predicate. It is deliberately independent of
// navigation so it can be unit-tested with zero delays.
type RetryPolicy struct {
	// Delays are the waits inserted between attempts; the total number
	// of attempts is len(Delays)+1.
	Delays []time.Duration

	// Retryable reports whether an error is worth another attempt.
	// A nil predicate retries every error.
	Retryable func(error) bool

	// OnRetry, if set, is called before each retry with the upcoming
	// attempt number (2-based) and the error that triggered it.
	OnRetry func(attempt int, err error)
}

// BackoffDelays returns the waits for maxAttempts total attempts:
// exponential from base, capped at limit. Three attempts with a 1s base
// yield 1s, 2s.
func BackoffDelays(maxAttempts int, base, limit time.Duration) []time.Duration {
	if maxAttempts < 2 {
		return nil
	}
	delays := make([]time.Duration, 0, maxAttempts-1)
	delay := base
	for i := 0; i < maxAttempts-1; i++ {
		delays = append(delays, delay)
		delay *= 2
		if delay > limit {
			delay = limit
		}
	}
	return delays
}

// Do runs op until it succeeds, returns a non-retryable error, or
// exhausts all attempts. The last error is returned on exhaustion;
// context cancellation interrupts the backoff waits.
func (p *RetryPolicy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	maxAttempts := len(p.Delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if p.Retryable != nil && !p.Retryable(err) {
			return err
		}
		if attempt >= maxAttempts-1 {
			break
		}

		// Check context before sleeping
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Delays[attempt]):
		}
	}

	return lastErr
}
