package crawl

import (
	"time"

	"github.com/fwojciec/mhracrawl"
)

// Accumulator owns the growing extraction tree and its counters during a
// run. Appends are append-only in traversal order; no entity is removed
// or reordered after creation. The single crawl goroutine is the only
// mutator, so no synchronization is needed.
type Accumulator struct {
	results *mhracrawl.ExtractionResults
	stats   mhracrawl.ScrapeStatistics
}

// NewAccumulator creates an empty Accumulator for a run. The letter
// counter is fixed up front to the configured letter count; the other
// counters increment exactly once per successfully appended entity.
func NewAccumulator(source string, generatedAt time.Time, totalLetters int) *Accumulator {
	return &Accumulator{
		results: &mhracrawl.ExtractionResults{
			GeneratedAtUTC: generatedAt,
			Source:         source,
		},
		stats: mhracrawl.ScrapeStatistics{TotalLetters: totalLetters},
	}
}

// AddLetter appends a new letter bucket and returns it. Buckets are
// appended even when they end up with zero substances.
func (a *Accumulator) AddLetter(letter string) *mhracrawl.LetterBucket {
	bucket := &mhracrawl.LetterBucket{Letter: letter}
	a.results.Letters = append(a.results.Letters, bucket)
	return bucket
}

// AddSubstance appends a substance to a bucket and returns it.
func (a *Accumulator) AddSubstance(bucket *mhracrawl.LetterBucket, name, substanceURL string) *mhracrawl.Substance {
	substance := &mhracrawl.Substance{Name: name, SubstanceURL: substanceURL}
	bucket.Substances = append(bucket.Substances, substance)
	a.stats.TotalSubstances++
	return substance
}

// AddProduct appends a product to a substance and returns it.
func (a *Accumulator) AddProduct(substance *mhracrawl.Substance, label, productURL string) *mhracrawl.Product {
	product := &mhracrawl.Product{Label: label, ProductURL: productURL}
	substance.Products = append(substance.Products, product)
	a.stats.TotalProducts++
	return product
}

// AddDocument appends a document to a product.
func (a *Accumulator) AddDocument(product *mhracrawl.Product, doc *mhracrawl.Document) {
	product.Documents = append(product.Documents, doc)
	a.stats.TotalDocuments++
}

// Results returns the accumulated tree.
func (a *Accumulator) Results() *mhracrawl.ExtractionResults {
	return a.results
}

// Stats returns a copy of the current counters.
func (a *Accumulator) Stats() mhracrawl.ScrapeStatistics {
	return a.stats
}
