// Package crawl implements the hierarchical traversal of the MHRA
// products site: letters → substances → products → documents. It drives
// a Page through a retrying Navigator, accumulates the tree in a single
// Accumulator, and applies a fixed politeness delay between requests.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fwojciec/mhracrawl"
)

// Selectors for the site's page structure. Each listing level has a
// precise selector (a marker class the site usually renders) and a
// broader fallback scoped to the same container; the fallback is used
// only when the precise selector yields nothing.
const (
	substanceWaitSelector = "nav ul li a[href^='/substance/']"
	substanceNameSelector = "nav ul li.substance-name a"
	substanceHrefPrefix   = "/substance/"

	productWaitSelector = "nav ul li a[href^='/product/']"
	productNameSelector = "nav ul li.product-name a"
	productHrefPrefix   = "/product/"

	anyNavLinkSelector = "nav ul li a"

	resultsSelector     = "section.column.results"
	resultBlockSelector = "section.column.results div.search-result"
	docLinkSelector     = "dd.right a"
	docTypeSelector     = "dt.left p.icon"
	docTitleSelector    = "dd.right a p.title"
	docSubtitleSelector = "dd.right a p.subtitle"
	docMetadataSelector = "dd.right p.metadata"

	disclaimerSelector = "#agree-checkbox"
	submitSelector     = "button[type='submit']:not([disabled])"
)

// LinkQuery pairs a CSS selector with the href prefix its results must
// carry to count as children of the current level.
type LinkQuery struct {
	Selector   string
	HrefPrefix string
}

func substanceQueries() []LinkQuery {
	return []LinkQuery{
		{Selector: substanceNameSelector, HrefPrefix: substanceHrefPrefix},
		{Selector: anyNavLinkSelector, HrefPrefix: substanceHrefPrefix},
	}
}

func productQueries() []LinkQuery {
	return []LinkQuery{
		{Selector: productNameSelector, HrefPrefix: productHrefPrefix},
		{Selector: anyNavLinkSelector, HrefPrefix: productHrefPrefix},
	}
}

// link is a harvested child link: its visible text and raw href.
type link struct {
	text string
	href string
}

// Crawler walks the four-level hierarchy depth-first, one page at a
// time, writing into an Accumulator. Navigation failures below the
// letter level degrade to entities with empty children; a failure while
// loading a letter index aborts the run.
type Crawler struct {
	Page    mhracrawl.Page
	Nav     mhracrawl.Navigator
	Limiter mhracrawl.RequestLimiter
	Logger  *slog.Logger
	Config  mhracrawl.Config

	// Clock returns the current time; nil means time.Now. Used for
	// deterministic document timestamps in tests.
	Clock func() time.Time
}

// Run executes the full crawl and returns the finished tree and
// counters. The returned tree is complete even when some subtrees
// degraded to empty; a fatal letter-index failure returns an error
// wrapping *mhracrawl.NavigationFailure and an unfinished tree.
func (c *Crawler) Run(ctx context.Context) (*mhracrawl.ExtractionResults, mhracrawl.ScrapeStatistics, error) {
	acc := NewAccumulator(c.Config.BaseURL, c.now(), len(c.Config.Letters))

	for _, letter := range c.Config.Letters {
		c.logger().Info("processing letter", "letter", letter)
		bucket := acc.AddLetter(letter)
		if err := c.crawlLetter(ctx, acc, bucket); err != nil {
			return acc.Results(), acc.Stats(), err
		}
	}

	return acc.Results(), acc.Stats(), nil
}

// crawlLetter loads one letter index and descends into its substances.
// Failure to load the index is fatal: a missing top-level page means the
// entire letter is unobtainable and continuing would under-report.
func (c *Crawler) crawlLetter(ctx context.Context, acc *Accumulator, bucket *mhracrawl.LetterBucket) error {
	url := ResolveURL(c.Config.BaseURL, c.Config.LetterIndexPath(bucket.Letter))
	if err := c.Nav.Navigate(ctx, url); err != nil {
		return fmt.Errorf("load letter index %q: %w", bucket.Letter, err)
	}

	if !c.Page.WaitVisible(ctx, substanceWaitSelector, c.Config.SelectorTimeout()) {
		// Legitimately empty letter, not an error.
		c.logger().Warn("no substances found", "letter", bucket.Letter)
		return nil
	}

	links, err := c.collectLinks(ctx, substanceQueries())
	if err != nil {
		return fmt.Errorf("collect substances for letter %q: %w", bucket.Letter, err)
	}
	if max := c.Config.MaxSubstances; max > 0 && len(links) > max {
		links = links[:max]
	}
	c.logger().Info("substances discovered", "letter", bucket.Letter, "count", len(links))

	for _, ln := range links {
		substance := acc.AddSubstance(bucket, ln.text, ln.href)
		if err := c.crawlSubstance(ctx, acc, substance); err != nil {
			return err
		}
		if err := c.Limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// crawlSubstance loads one substance page and descends into its
// products. Losing one substance is acceptable data loss: failures here
// leave the substance with no products and move on.
func (c *Crawler) crawlSubstance(ctx context.Context, acc *Accumulator, substance *mhracrawl.Substance) error {
	url := ResolveURL(c.Config.BaseURL, substance.SubstanceURL)
	if err := c.Nav.Navigate(ctx, url); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger().Error("failed to load substance", "name", substance.Name, "err", err)
		return nil
	}

	if !c.Page.WaitVisible(ctx, productWaitSelector, c.Config.SelectorTimeout()) {
		c.logger().Warn("no products found", "substance", substance.Name)
		return nil
	}

	links, err := c.collectLinks(ctx, productQueries())
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger().Error("failed to collect products", "substance", substance.Name, "err", err)
		return nil
	}
	if max := c.Config.MaxProducts; max > 0 && len(links) > max {
		links = links[:max]
	}
	c.logger().Info("products discovered", "substance", substance.Name, "count", len(links))

	for _, ln := range links {
		product := acc.AddProduct(substance, ln.text, ln.href)
		if err := c.crawlProduct(ctx, acc, product); err != nil {
			return err
		}
		if err := c.Limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}

// crawlProduct loads one product page, acknowledges the interstitial
// disclaimer when present, and extracts the document result blocks.
func (c *Crawler) crawlProduct(ctx context.Context, acc *Accumulator, product *mhracrawl.Product) error {
	url := ResolveURL(c.Config.BaseURL, product.ProductURL)
	if err := c.Nav.Navigate(ctx, url); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger().Error("failed to load product", "label", product.Label, "err", err)
		return nil
	}

	if err := c.acknowledgeDisclaimer(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger().Warn("disclaimer acknowledgement failed", "label", product.Label, "err", err)
	}

	if !c.Page.WaitVisible(ctx, resultsSelector, c.Config.SelectorTimeout()) {
		c.logger().Info("no documents displayed", "label", product.Label)
		return nil
	}

	blocks, err := c.Page.Elements(ctx, resultBlockSelector)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger().Error("failed to query document results", "label", product.Label, "err", err)
		return nil
	}
	c.logger().Info("documents discovered", "label", product.Label, "count", len(blocks))

	for i, block := range blocks {
		if max := c.Config.MaxDocuments; max > 0 && len(product.Documents) >= max {
			break
		}
		doc, err := c.extractDocument(block, product)
		if err != nil {
			c.logger().Warn("failed to extract document", "label", product.Label, "index", i, "err", err)
			continue
		}
		if doc == nil {
			// Block without a document link; skipped entirely.
			continue
		}
		acc.AddDocument(product, doc)
		c.logger().Info("document collected", "label", doc.Label(), "type", doc.DocType)
	}
	return nil
}

// acknowledgeDisclaimer handles the optional interstitial control that
// gates document results: scroll the checkbox into view, check it, wait
// for the submit action to enable, click it, and wait for quiescence.
// Absence of the control is not an error.
func (c *Crawler) acknowledgeDisclaimer(ctx context.Context) error {
	boxes, err := c.Page.Elements(ctx, disclaimerSelector)
	if err != nil {
		return err
	}
	if len(boxes) == 0 {
		return nil
	}
	if err := boxes[0].ScrollIntoView(); err != nil {
		return err
	}
	if err := boxes[0].Check(); err != nil {
		return err
	}
	if !c.Page.WaitVisible(ctx, submitSelector, c.Config.SelectorTimeout()) {
		return mhracrawl.Errorf(mhracrawl.ETIMEOUT, "disclaimer submit control did not become enabled")
	}
	buttons, err := c.Page.Elements(ctx, submitSelector)
	if err != nil {
		return err
	}
	if len(buttons) == 0 {
		return nil
	}
	if err := buttons[0].Click(); err != nil {
		return err
	}
	return c.Page.WaitIdle(ctx)
}

// collectLinks evaluates the ordered query strategies in sequence and
// returns the harvested links from the first strategy that yields any.
// The fallback widens scope only when the precise selector yields
// nothing, never when it yields partial results.
func (c *Crawler) collectLinks(ctx context.Context, queries []LinkQuery) ([]link, error) {
	for _, q := range queries {
		elements, err := c.Page.Elements(ctx, q.Selector)
		if err != nil {
			return nil, err
		}
		links := make([]link, 0, len(elements))
		for _, el := range elements {
			href, err := el.Attribute("href")
			if err != nil {
				return nil, err
			}
			if href == nil || *href == "" {
				continue
			}
			if q.HrefPrefix != "" && !strings.HasPrefix(*href, q.HrefPrefix) {
				continue
			}
			text, err := el.Text()
			if err != nil {
				return nil, err
			}
			text = NormalizeWhitespace(text)
			if text == "" {
				continue
			}
			links = append(links, link{text: text, href: *href})
		}
		if len(links) > 0 {
			return links, nil
		}
	}
	return nil, nil
}

// extractDocument reads one search-result block. A block without a
// document link returns (nil, nil) and is skipped. Missing fields
// resolve to documented fallbacks: empty type label, product label as
// title, absent subtitle, nil file size, empty substance list.
func (c *Crawler) extractDocument(block mhracrawl.Element, product *mhracrawl.Product) (*mhracrawl.Document, error) {
	anchors, err := block.Elements(docLinkSelector)
	if err != nil {
		return nil, err
	}
	if len(anchors) == 0 {
		return nil, nil
	}
	href, err := anchors[0].Attribute("href")
	if err != nil {
		return nil, err
	}
	if href == nil || *href == "" {
		return nil, nil
	}

	docType := ""
	if els, err := block.Elements(docTypeSelector); err == nil && len(els) > 0 {
		if text, err := els[0].Text(); err == nil {
			docType = NormalizeWhitespace(text)
		}
	}

	title := product.Label
	if els, err := block.Elements(docTitleSelector); err == nil && len(els) > 0 {
		if text, err := els[0].Text(); err == nil {
			title = NormalizeWhitespace(text)
		}
	}

	var subtitle *string
	if els, err := block.Elements(docSubtitleSelector); err == nil && len(els) > 0 {
		if text, err := els[0].Text(); err == nil {
			s := NormalizeWhitespace(text)
			subtitle = &s
		}
	}

	var fileSizeKB *int
	activeSubstances := []string{}
	metadataEls, err := block.Elements(docMetadataSelector)
	if err == nil {
		for _, el := range metadataEls {
			text, err := el.Text()
			if err != nil {
				continue
			}
			clean := NormalizeWhitespace(text)
			lower := strings.ToLower(clean)
			if strings.Contains(lower, "file size") {
				fileSizeKB = ParseFileSize(clean)
			}
			if strings.Contains(lower, "active substances") {
				activeSubstances = ParseActiveSubstances(clean)
			}
		}
	}

	return &mhracrawl.Document{
		DocURL:           ResolveURL(c.Config.BaseURL, *href),
		DocType:          docType,
		Title:            title,
		Subtitle:         subtitle,
		FileSizeKB:       fileSizeKB,
		ActiveSubstances: activeSubstances,
		ProductLabel:     product.Label,
		ProductURL:       product.ProductURL,
		CollectedAtUTC:   c.now(),
	}, nil
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Crawler) now() time.Time {
	if c.Clock != nil {
		return c.Clock().UTC()
	}
	return time.Now().UTC()
}
