// Package rod implements the page-automation port using Chrome browser
// automation via go-rod.
package rod

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/mhracrawl"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Page implements mhracrawl.Page at compile time.
var _ mhracrawl.Page = (*Page)(nil)

// Page drives a single headless Chrome tab for the whole run. It is not
// safe for concurrent use; the crawl is strictly sequential and shares
// this one session.
type Page struct {
	browser *rod.Browser
	page    *rod.Page
	timeout time.Duration
}

// NewPage launches a Chrome browser and opens the tab reused for the
// entire run. Close must be called when the Page is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewPage(headless bool, navigationTimeout time.Duration) (*Page, error) {
	// Launch browser using rod's launcher (finds or downloads Chrome)
	l := launcher.New().Headless(headless)
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill() // Clean up launched process on connection failure
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	return &Page{browser: browser, page: page, timeout: navigationTimeout}, nil
}

// Navigate loads the URL and returns the HTTP status of the main
// document response. Timeouts are reported with the ETIMEOUT code so the
// retry policy can classify them.
func (p *Page) Navigate(ctx context.Context, url string) (int, error) {
	page := p.page.Context(ctx).Timeout(p.timeout)

	var e proto.NetworkResponseReceived
	wait := page.WaitEvent(&e)

	if err := page.Navigate(url); err != nil {
		return 0, classify(err, "navigate to %s", url)
	}
	wait()
	if e.Response == nil {
		return 0, mhracrawl.Errorf(mhracrawl.ETIMEOUT, "no response observed for %s", url)
	}
	if err := page.WaitLoad(); err != nil {
		return 0, classify(err, "wait for %s to load", url)
	}
	return e.Response.Status, nil
}

// WaitIdle blocks until the tab reaches a quiescent state.
func (p *Page) WaitIdle(ctx context.Context) error {
	if err := p.page.Context(ctx).WaitIdle(p.timeout); err != nil {
		return classify(err, "wait for idle")
	}
	return nil
}

// WaitVisible reports whether an element matching the selector appears
// within the timeout.
func (p *Page) WaitVisible(ctx context.Context, selector string, timeout time.Duration) bool {
	_, err := p.page.Context(ctx).Timeout(timeout).Element(selector)
	return err == nil
}

// Elements returns handles for all current matches of the selector.
func (p *Page) Elements(ctx context.Context, selector string) ([]mhracrawl.Element, error) {
	els, err := p.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return wrapElements(els), nil
}

// Close releases the tab and browser resources.
func (p *Page) Close() error {
	return p.browser.Close()
}

// classify converts context deadline errors into the application's
// timeout error code; everything else propagates wrapped.
func classify(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, context.DeadlineExceeded) {
		return mhracrawl.Errorf(mhracrawl.ETIMEOUT, "%s: %v", msg, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

var _ mhracrawl.Element = (*element)(nil)

// element adapts a rod element handle to the automation port.
type element struct {
	el *rod.Element
}

func wrapElements(els rod.Elements) []mhracrawl.Element {
	wrapped := make([]mhracrawl.Element, 0, len(els))
	for _, el := range els {
		wrapped = append(wrapped, &element{el: el})
	}
	return wrapped
}

func (e *element) Attribute(name string) (*string, error) {
	return e.el.Attribute(name)
}

func (e *element) Text() (string, error) {
	return e.el.Text()
}

func (e *element) Elements(selector string) ([]mhracrawl.Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", selector, err)
	}
	return wrapElements(els), nil
}

func (e *element) ScrollIntoView() error {
	return e.el.ScrollIntoView()
}

func (e *element) Check() error {
	// Chrome toggles checkbox state on click; the caller only checks
	// unchecked disclaimers, so a single click sets the checked state.
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}

func (e *element) Click() error {
	return e.el.Click(proto.InputMouseButtonLeft, 1)
}
