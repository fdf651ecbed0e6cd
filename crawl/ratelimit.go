package crawl

import (
	"context"
	"time"

	"github.com/fwojciec/mhracrawl"
	"golang.org/x/time/rate"
)

var _ mhracrawl.RequestLimiter = (*Limiter)(nil)

// Limiter enforces the fixed politeness delay between successive page
// requests using a token bucket with a burst of 1.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a Limiter that allows one request per delay
// interval. A non-positive delay disables pacing.
func NewLimiter(delay time.Duration) *Limiter {
	if delay <= 0 {
		return &Limiter{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait blocks until the politeness delay since the previous request has
// elapsed. Returns an error if the context is canceled first.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}
