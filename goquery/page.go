// Package goquery implements the page-automation port over plain HTTP
// and static HTML parsing. It covers server-rendered pages without the
// cost of a browser; interactive operations (scroll, check, click) are
// no-ops, so interstitial controls are simply never present.
package goquery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/mhracrawl"
)

// Ensure Page implements mhracrawl.Page at compile time.
var _ mhracrawl.Page = (*Page)(nil)

// Page fetches documents with an HTTP client and answers selector
// queries against the parsed HTML of the most recent navigation.
type Page struct {
	client  *http.Client
	timeout time.Duration
	doc     *goquery.Document
}

// NewPage creates a static Page. A nil client uses http.DefaultClient.
func NewPage(client *http.Client, navigationTimeout time.Duration) *Page {
	if client == nil {
		client = http.DefaultClient
	}
	return &Page{client: client, timeout: navigationTimeout}
}

// Navigate fetches the URL and parses the response body. The parsed
// document replaces the previous one even for error statuses; the
// caller decides whether the status is acceptable.
func (p *Page) Navigate(ctx context.Context, url string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("build request for %s: %w", url, err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return 0, mhracrawl.Errorf(mhracrawl.ETIMEOUT, "fetch %s: %v", url, err)
		}
		return 0, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", url, err)
	}
	p.doc = doc
	return resp.StatusCode, nil
}

// WaitIdle is a no-op: a static document is quiescent on arrival.
func (p *Page) WaitIdle(ctx context.Context) error {
	return ctx.Err()
}

// WaitVisible reports element presence in the current document. There is
// nothing to wait for on a static page, so the timeout is ignored.
func (p *Page) WaitVisible(ctx context.Context, selector string, _ time.Duration) bool {
	if ctx.Err() != nil || p.doc == nil {
		return false
	}
	return p.doc.Find(selector).Length() > 0
}

// Elements returns handles for all matches in the current document.
func (p *Page) Elements(ctx context.Context, selector string) ([]mhracrawl.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.doc == nil {
		return nil, mhracrawl.Errorf(mhracrawl.EINVALID, "no document loaded")
	}
	return wrapSelection(p.doc.Find(selector)), nil
}

// Close releases nothing; the HTTP client is owned by the caller.
func (p *Page) Close() error {
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ mhracrawl.Element = (*element)(nil)

// element adapts a goquery selection of length 1 to the automation port.
type element struct {
	sel *goquery.Selection
}

func wrapSelection(sel *goquery.Selection) []mhracrawl.Element {
	elements := make([]mhracrawl.Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &element{sel: s})
	})
	return elements
}

func (e *element) Attribute(name string) (*string, error) {
	value, ok := e.sel.Attr(name)
	if !ok {
		return nil, nil
	}
	return &value, nil
}

func (e *element) Text() (string, error) {
	return e.sel.Text(), nil
}

func (e *element) Elements(selector string) ([]mhracrawl.Element, error) {
	return wrapSelection(e.sel.Find(selector)), nil
}

// ScrollIntoView is a no-op for static documents.
func (e *element) ScrollIntoView() error {
	return nil
}

// Check is a no-op for static documents.
func (e *element) Check() error {
	return nil
}

// Click is a no-op for static documents.
func (e *element) Click() error {
	return nil
}
