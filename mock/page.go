package mock

import (
	"context"
	"time"

	"github.com/fwojciec/mhracrawl"
)

var _ mhracrawl.Page = (*Page)(nil)

// Page is a mock implementation of mhracrawl.Page.
type Page struct {
	NavigateFn    func(ctx context.Context, url string) (int, error)
	WaitIdleFn    func(ctx context.Context) error
	WaitVisibleFn func(ctx context.Context, selector string, timeout time.Duration) bool
	ElementsFn    func(ctx context.Context, selector string) ([]mhracrawl.Element, error)
	CloseFn       func() error
}

func (p *Page) Navigate(ctx context.Context, url string) (int, error) {
	return p.NavigateFn(ctx, url)
}

func (p *Page) WaitIdle(ctx context.Context) error {
	if p.WaitIdleFn == nil {
		return nil
	}
	return p.WaitIdleFn(ctx)
}

func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) bool {
	return p.WaitVisibleFn(ctx, selector, timeout)
}

func (p *Page) Elements(ctx context.Context, selector string) ([]mhracrawl.Element, error) {
	return p.ElementsFn(ctx, selector)
}

func (p *Page) Close() error {
	if p.CloseFn == nil {
		return nil
	}
	return p.CloseFn()
}

var _ mhracrawl.Element = (*Element)(nil)

// Element is a mock implementation of mhracrawl.Element. The zero value
// behaves as an empty, inert element; set fields to script behavior.
type Element struct {
	AttributeFn      func(name string) (*string, error)
	TextFn           func() (string, error)
	ElementsFn       func(selector string) ([]mhracrawl.Element, error)
	ScrollIntoViewFn func() error
	CheckFn          func() error
	ClickFn          func() error
}

func (e *Element) Attribute(name string) (*string, error) {
	if e.AttributeFn == nil {
		return nil, nil
	}
	return e.AttributeFn(name)
}

func (e *Element) Text() (string, error) {
	if e.TextFn == nil {
		return "", nil
	}
	return e.TextFn()
}

func (e *Element) Elements(selector string) ([]mhracrawl.Element, error) {
	if e.ElementsFn == nil {
		return nil, nil
	}
	return e.ElementsFn(selector)
}

func (e *Element) ScrollIntoView() error {
	if e.ScrollIntoViewFn == nil {
		return nil
	}
	return e.ScrollIntoViewFn()
}

func (e *Element) Check() error {
	if e.CheckFn == nil {
		return nil
	}
	return e.CheckFn()
}

func (e *Element) Click() error {
	if e.ClickFn == nil {
		return nil
	}
	return e.ClickFn()
}
