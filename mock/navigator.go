package mock

import (
	"context"

	"github.com/fwojciec/mhracrawl"
)

var _ mhracrawl.Navigator = (*Navigator)(nil)

// Navigator is a mock implementation of mhracrawl.Navigator.
type Navigator struct {
	NavigateFn func(ctx context.Context, url string) error
}

func (n *Navigator) Navigate(ctx context.Context, url string) error {
	return n.NavigateFn(ctx, url)
}

var _ mhracrawl.RequestLimiter = (*RequestLimiter)(nil)

// RequestLimiter is a mock implementation of mhracrawl.RequestLimiter.
// The zero value never blocks.
type RequestLimiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *RequestLimiter) Wait(ctx context.Context) error {
	if l.WaitFn == nil {
		return nil
	}
	return l.WaitFn(ctx)
}
