package mhracrawl

import (
	"context"
	"time"
)

// Page drives a single browsing session on the source site. One Page is
// reused for an entire run; navigation replaces the current document.
//
// Implementations hide the underlying automation engine (headless
// browser vs plain HTTP) behind this capability surface so the crawl
// logic can be tested against scripted pages.
type Page interface {
	// Navigate loads the URL and returns the HTTP status of the main
	// document response. A zero status means the engine could not
	// observe one.
	Navigate(ctx context.Context, url string) (status int, err error)

	// WaitIdle blocks until the page reaches a quiescent network state.
	WaitIdle(ctx context.Context) error

	// WaitVisible reports whether an element matching the selector
	// appears within the timeout. A false return is not an error; it is
	// how empty listings are detected.
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) bool

	// Elements returns handles for all elements matching the selector
	// on the current document.
	Elements(ctx context.Context, selector string) ([]Element, error)

	// Close releases the underlying session resources.
	Close() error
}

// Element is a handle to a single element on the current document.
type Element interface {
	// Attribute returns the value of the named attribute, or nil if the
	// attribute is absent.
	Attribute(name string) (*string, error)

	// Text returns the rendered text content of the element.
	Text() (string, error)

	// Elements returns handles for descendant elements matching the
	// selector, scoped to this element.
	Elements(selector string) ([]Element, error)

	// ScrollIntoView scrolls the element into the viewport.
	ScrollIntoView() error

	// Check sets a checkbox-like element to its checked state.
	Check() error

	// Click performs a click on the element.
	Click() error
}

// Navigator moves the browsing session between pages. The crawl
// implementation wraps a Page with retry and backoff; the crawler only
// sees this interface.
type Navigator interface {
	// Navigate loads the URL, retrying transient failures. After
	// exhausting retries it returns a *NavigationFailure.
	Navigate(ctx context.Context, url string) error
}

// RequestLimiter paces successive page requests. Wait blocks until the
// politeness delay since the previous request has elapsed.
type RequestLimiter interface {
	Wait(ctx context.Context) error
}
