package mhracrawl

import "time"

// Document is the leaf record of the crawl: one downloadable document
// discovered on a product page. Immutable once created; owned
// exclusively by its Product.
type Document struct {
	DocURL           string
	DocType          string // free-text label, e.g. "SPC", "PIL"
	Title            string
	Subtitle         *string
	FileSizeKB       *int
	ActiveSubstances []string
	ProductLabel     string
	ProductURL       string
	CollectedAtUTC   time.Time
}

// Label returns the display label used in the structure mapping:
// the subtitle if present, else the title, else "".
func (d *Document) Label() string {
	if d.Subtitle != nil && *d.Subtitle != "" {
		return *d.Subtitle
	}
	return d.Title
}

// Product is a single formulation listed under a substance. Documents
// appear in page order; no sorting is applied. Owned exclusively by its
// Substance.
type Product struct {
	Label      string
	ProductURL string
	Documents  []*Document
}

// Substance is a single active-substance entry under a letter bucket.
type Substance struct {
	Name         string
	SubstanceURL string
	Products     []*Product
}

// LetterBucket groups the substances whose names begin with one letter
// or digit. A bucket with zero substances is still present in the
// output; absence of data is data, not an error.
type LetterBucket struct {
	Letter     string
	Substances []*Substance
}

// ExtractionResults is the root of the accumulated tree: one bucket per
// configured letter in traversal order, plus run metadata. The tree is
// never mutated after the crawl completes.
type ExtractionResults struct {
	Letters        []*LetterBucket
	GeneratedAtUTC time.Time // fixed at run start, shared by all views
	Source         string    // base URL of the crawled site
}

// ScrapeStatistics holds the running counters for one run. Each counter
// is incremented exactly once per successfully accumulated entity.
type ScrapeStatistics struct {
	TotalLetters    int
	TotalSubstances int
	TotalProducts   int
	TotalDocuments  int
}

// Generated artifact filenames. The same names are used on disk, in the
// version snapshot directories, and in remote storage.
const (
	UltraFileName       = "mhra_ultra_3.0.json"
	PDFLinksFileName    = "all_pdf_links.json"
	StructureFileName   = "mhra_structure_mapping.json"
	CertificateFileName = "update_certificate.json"
)

// GeneratedFileNames lists the artifact filenames in write order.
func GeneratedFileNames() []string {
	return []string{UltraFileName, PDFLinksFileName, StructureFileName, CertificateFileName}
}
