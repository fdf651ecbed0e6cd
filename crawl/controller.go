package crawl

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/fwojciec/mhracrawl"
)

// Backoff schedule bounds for navigation retries.
const (
	backoffBase  = 1 * time.Second
	backoffLimit = 8 * time.Second
)

// Transient reports whether a navigation error is retryable: only
// timeout-class failures qualify. HTTP responses with status >= 400 are
// rejected by the controller as timeout-class errors, so they retry too.
func Transient(err error) bool {
	return mhracrawl.ErrorCode(err) == mhracrawl.ETIMEOUT
}

var _ mhracrawl.Navigator = (*Controller)(nil)

// Controller implements mhracrawl.Navigator by wrapping a Page with a
// bounded-retry, exponential-backoff policy. After a successful
// navigation it waits for the page to reach a quiescent network state
// before returning control.
type Controller struct {
	Page   mhracrawl.Page
	Policy *RetryPolicy
	Logger *slog.Logger
}

// NewController creates a Controller with the default transient-failure
// policy: maxRetries total attempts, backoff from 1s capped at 8s.
func NewController(page mhracrawl.Page, maxRetries int, logger *slog.Logger) *Controller {
	c := &Controller{
		Page:   page,
		Logger: logger,
		Policy: &RetryPolicy{
			Delays:    BackoffDelays(maxRetries, backoffBase, backoffLimit),
			Retryable: Transient,
		},
	}
	if logger != nil {
		c.Policy.OnRetry = func(attempt int, err error) {
			logger.Warn("retrying navigation", "attempt", attempt, "err", err)
		}
	}
	return c
}

// Navigate loads the URL. Transient failures (timeouts and HTTP >= 400)
// are retried per the policy; exhaustion is promoted to a
// *mhracrawl.NavigationFailure carrying the URL. Any other error
// propagates immediately without retry.
func (c *Controller) Navigate(ctx context.Context, url string) error {
	err := c.Policy.Do(ctx, func(ctx context.Context) error {
		status, err := c.Page.Navigate(ctx, url)
		if err != nil {
			return err
		}
		if status >= 400 {
			return mhracrawl.Errorf(mhracrawl.ETIMEOUT, "http %d for %s", status, url)
		}
		return c.Page.WaitIdle(ctx)
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, ctx.Err()) && ctx.Err() != nil {
		return err
	}
	retryable := c.Policy.Retryable
	if retryable == nil || retryable(err) {
		// Retries exhausted on a transient failure.
		return &mhracrawl.NavigationFailure{URL: url, Err: err}
	}
	return err
}
