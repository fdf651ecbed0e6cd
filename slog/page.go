// Package slog provides logging decorators for the automation interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mhracrawl"
)

// Ensure LoggingPage implements mhracrawl.Page.
var _ mhracrawl.Page = (*LoggingPage)(nil)

// LoggingPage wraps a Page with structured logging.
type LoggingPage struct {
	next   mhracrawl.Page
	logger *slog.Logger
}

// NewLoggingPage creates a new LoggingPage.
func NewLoggingPage(next mhracrawl.Page, logger *slog.Logger) *LoggingPage {
	return &LoggingPage{next: next, logger: logger}
}

// Navigate logs the URL, resulting status and duration, and delegates to
// the wrapped page.
func (p *LoggingPage) Navigate(ctx context.Context, url string) (status int, err error) {
	defer func(begin time.Time) {
		p.logger.Info("navigate",
			"url", url,
			"status", status,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Navigate(ctx, url)
}

// WaitIdle delegates to the wrapped page.
func (p *LoggingPage) WaitIdle(ctx context.Context) error {
	return p.next.WaitIdle(ctx)
}

// WaitVisible logs the selector outcome and delegates to the wrapped page.
func (p *LoggingPage) WaitVisible(ctx context.Context, selector string, timeout time.Duration) (found bool) {
	defer func(begin time.Time) {
		p.logger.Debug("wait visible",
			"selector", selector,
			"found", found,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return p.next.WaitVisible(ctx, selector, timeout)
}

// Elements delegates to the wrapped page.
func (p *LoggingPage) Elements(ctx context.Context, selector string) ([]mhracrawl.Element, error) {
	return p.next.Elements(ctx, selector)
}

// Close delegates to the wrapped page.
func (p *LoggingPage) Close() error {
	return p.next.Close()
}
