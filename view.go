package mhracrawl

import (
	"bytes"
	"encoding/json"
	"time"
)

// The views below are the wire shapes of the four generated artifacts.
// They are computed once, after the crawl completes, by pure functions of
// the finished tree and statistics. Field names follow the published
// dataset format, which predates this implementation.

// ultraStrategy describes the extraction strategy recorded in the
// hierarchical view's crawler_info block.
const ultraStrategy = "Ultra 3.0 - Full Extraction with Structure"

// ultraFeatures is the fixed feature descriptor list for crawler_info.
func ultraFeatures() []string {
	return []string{
		"PDF Link Collection",
		"Hierarchical Structure",
		"Detailed CLI Output",
		"Version Tracking",
	}
}

// HierarchicalView is the fully nested letter → substance → product →
// document projection ("ultra" view).
type HierarchicalView struct {
	GeneratedAtUTC string      `json:"generated_at_utc"`
	Source         string      `json:"source"`
	CrawlerInfo    CrawlerInfo `json:"crawler_info"`
	Letters        []UltraLetter `json:"letters"`
}

// CrawlerInfo carries run metadata embedded in the hierarchical view.
type CrawlerInfo struct {
	Strategy     string           `json:"strategy"`
	TotalLetters int              `json:"total_letters"`
	Concurrency  LevelConcurrency `json:"concurrency"`
	Features     []string         `json:"features"`
}

// LevelConcurrency records the per-level fetch concurrency. The crawl is
// strictly sequential, so every level is 1.
type LevelConcurrency struct {
	Letters    int `json:"letters"`
	Substances int `json:"substances"`
	Products   int `json:"products"`
	Documents  int `json:"documents"`
}

// UltraLetter is one letter bucket in the hierarchical view.
type UltraLetter struct {
	Letter     string           `json:"letter"`
	Substances []UltraSubstance `json:"substances"`
}

// UltraSubstance is one substance in the hierarchical view.
type UltraSubstance struct {
	Name         string         `json:"name"`
	SubstanceURL string         `json:"substance_url"`
	SubDrugs     []UltraProduct `json:"sub_drugs"`
}

// UltraProduct is one product in the hierarchical view.
type UltraProduct struct {
	Label      string          `json:"label"`
	ProductURL string          `json:"product_url"`
	Documents  []UltraDocument `json:"documents"`
}

// UltraDocument is one document in the hierarchical view. It carries
// every Document field except the collection timestamp.
type UltraDocument struct {
	DocURL           string   `json:"doc_url"`
	DocType          string   `json:"doc_type"`
	Title            string   `json:"title"`
	Subtitle         *string  `json:"subtitle"`
	FileSizeKB       *int     `json:"file_size_kb"`
	ActiveSubstances []string `json:"active_substances"`
	ProductLabel     string   `json:"product_label"`
	ProductURL       string   `json:"product_url"`
}

// Hierarchical projects the tree into the nested "ultra" view.
func (r *ExtractionResults) Hierarchical() *HierarchicalView {
	letters := make([]UltraLetter, 0, len(r.Letters))
	for _, bucket := range r.Letters {
		substances := make([]UltraSubstance, 0, len(bucket.Substances))
		for _, substance := range bucket.Substances {
			products := make([]UltraProduct, 0, len(substance.Products))
			for _, product := range substance.Products {
				documents := make([]UltraDocument, 0, len(product.Documents))
				for _, doc := range product.Documents {
					documents = append(documents, UltraDocument{
						DocURL:           doc.DocURL,
						DocType:          doc.DocType,
						Title:            doc.Title,
						Subtitle:         doc.Subtitle,
						FileSizeKB:       doc.FileSizeKB,
						ActiveSubstances: nonNil(doc.ActiveSubstances),
						ProductLabel:     doc.ProductLabel,
						ProductURL:       doc.ProductURL,
					})
				}
				products = append(products, UltraProduct{
					Label:      product.Label,
					ProductURL: product.ProductURL,
					Documents:  documents,
				})
			}
			substances = append(substances, UltraSubstance{
				Name:         substance.Name,
				SubstanceURL: substance.SubstanceURL,
				SubDrugs:     products,
			})
		}
		letters = append(letters, UltraLetter{
			Letter:     bucket.Letter,
			Substances: substances,
		})
	}
	return &HierarchicalView{
		GeneratedAtUTC: FormatUTC(r.GeneratedAtUTC),
		Source:         r.Source,
		CrawlerInfo: CrawlerInfo{
			Strategy:     ultraStrategy,
			TotalLetters: len(r.Letters),
			Concurrency:  LevelConcurrency{Letters: 1, Substances: 1, Products: 1, Documents: 1},
			Features:     ultraFeatures(),
		},
		Letters: letters,
	}
}

// PDFLinkIndex is the flat document-link projection: every document in
// the tree, in traversal order, with its parent product context repeated.
type PDFLinkIndex struct {
	GeneratedAtUTC string         `json:"generated_at_utc"`
	Source         string         `json:"source"`
	TotalPDFLinks  int            `json:"total_pdf_links"`
	PDFLinks       []PDFLinkEntry `json:"pdf_links"`
}

// PDFLinkEntry is one flattened document.
type PDFLinkEntry struct {
	PDFURL           string   `json:"pdf_url"`
	DocType          string   `json:"doc_type"`
	Title            string   `json:"title"`
	Subtitle         *string  `json:"subtitle"`
	FileSizeKB       *int     `json:"file_size_kb"`
	ActiveSubstances []string `json:"active_substances"`
	ProductLabel     string   `json:"product_label"`
	ProductURL       string   `json:"product_url"`
	FullURL          string   `json:"full_url"`
	CollectedAtUTC   string   `json:"collected_at_utc"`
}

// FlatLinks projects the tree into the flat document-link view.
func (r *ExtractionResults) FlatLinks() *PDFLinkIndex {
	var entries []PDFLinkEntry
	for _, bucket := range r.Letters {
		for _, substance := range bucket.Substances {
			for _, product := range substance.Products {
				for _, doc := range product.Documents {
					entries = append(entries, PDFLinkEntry{
						PDFURL:           doc.DocURL,
						DocType:          doc.DocType,
						Title:            doc.Title,
						Subtitle:         doc.Subtitle,
						FileSizeKB:       doc.FileSizeKB,
						ActiveSubstances: nonNil(doc.ActiveSubstances),
						ProductLabel:     doc.ProductLabel,
						ProductURL:       doc.ProductURL,
						FullURL:          doc.DocURL,
						CollectedAtUTC:   FormatUTC(doc.CollectedAtUTC),
					})
				}
			}
		}
	}
	if entries == nil {
		entries = []PDFLinkEntry{}
	}
	return &PDFLinkIndex{
		GeneratedAtUTC: FormatUTC(r.GeneratedAtUTC),
		Source:         r.Source,
		TotalPDFLinks:  len(entries),
		PDFLinks:       entries,
	}
}

// StructureMapping is the folder-oriented projection: letter → substance
// → product → document display labels.
type StructureMapping struct {
	Metadata  StructureMetadata `json:"metadata"`
	Structure *OrderedMap       `json:"structure"`
}

// StructureMetadata describes the mapping file.
type StructureMetadata struct {
	Created                  string `json:"created"`
	BasePath                 string `json:"basePath"`
	TotalTopLevelDirectories int    `json:"totalTopLevelDirectories"`
	Structure                string `json:"structure"`
}

// Structure projects the tree into the folder-structure mapping. Each
// document contributes its subtitle if present, else its title if
// present, else nothing.
func (r *ExtractionResults) Structure(basePath string) *StructureMapping {
	structure := NewOrderedMap()
	for _, bucket := range r.Letters {
		letterMap := NewOrderedMap()
		for _, substance := range bucket.Substances {
			substanceMap := NewOrderedMap()
			for _, product := range substance.Products {
				labels := []string{}
				for _, doc := range product.Documents {
					if label := doc.Label(); label != "" {
						labels = append(labels, label)
					}
				}
				substanceMap.Set(product.Label, labels)
			}
			letterMap.Set(substance.Name, substanceMap)
		}
		structure.Set(bucket.Letter, letterMap)
	}
	return &StructureMapping{
		Metadata: StructureMetadata{
			Created:                  FormatUTC(r.GeneratedAtUTC),
			BasePath:                 basePath,
			TotalTopLevelDirectories: len(r.Letters),
			Structure:                "Level 1: Letters/Numbers -> Level 2: Drug Names -> Level 3: Formulations -> Level 4: PDF Files",
		},
		Structure: structure,
	}
}

// UpdateCertificate is the run summary artifact.
type UpdateCertificate struct {
	UpdateVersion   string                `json:"update_version"`
	UpdateTimestamp string                `json:"update_timestamp"`
	Statistics      CertificateStatistics `json:"statistics"`
	FilesGenerated  []string              `json:"files_generated"`
	Note            string                `json:"note"`
}

// CertificateStatistics restates the run counters. The new/updated/
// unchanged split is fixed because every run is a full re-crawl.
type CertificateStatistics struct {
	TotalLetters    int `json:"total_letters"`
	TotalSubstances int `json:"total_substances"`
	TotalProducts   int `json:"total_products"`
	TotalPDFs       int `json:"total_pdfs"`
	NewPDFs         int `json:"new_pdfs"`
	UpdatedPDFs     int `json:"updated_pdfs"`
	UnchangedPDFs   int `json:"unchanged_pdfs"`
}

// BuildCertificate derives the run summary from the statistics. It does
// not walk the tree.
func BuildCertificate(stats ScrapeStatistics, versionLabel string, generatedAt time.Time) *UpdateCertificate {
	return &UpdateCertificate{
		UpdateVersion:   versionLabel,
		UpdateTimestamp: FormatUTC(generatedAt),
		Statistics: CertificateStatistics{
			TotalLetters:    stats.TotalLetters,
			TotalSubstances: stats.TotalSubstances,
			TotalProducts:   stats.TotalProducts,
			TotalPDFs:       stats.TotalDocuments,
			NewPDFs:         stats.TotalDocuments,
			UpdatedPDFs:     0,
			UnchangedPDFs:   0,
		},
		FilesGenerated: []string{
			UltraFileName + " - Hierarchical structure (letters > substances > products > documents)",
			PDFLinksFileName + " - Flat list of all PDF links",
			StructureFileName + " - Folder structure mapping",
			CertificateFileName + " - Run summary and statistics",
		},
		Note: "Data extracted using the automated headless browser crawler.",
	}
}

// DefaultVersionLabel derives the certificate version label from a date:
// 4.0.<DD.MM.YYYY>.
func DefaultVersionLabel(now time.Time) string {
	return "4.0." + now.UTC().Format("02.01.2006")
}

// FormatUTC renders a timestamp the way all artifacts expect: RFC3339 in
// UTC with a trailing Z.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// OrderedMap is a JSON object that marshals its keys in insertion order.
// The structure mapping relies on it to keep letters, substances and
// products in traversal order, which encoding/json maps would sort away.
type OrderedMap struct {
	keys   []string
	values map[string]any
}

// NewOrderedMap returns an empty OrderedMap.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]any)}
}

// Set adds or replaces a key. A replaced key keeps its original position.
func (m *OrderedMap) Set(key string, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for a key.
func (m *OrderedMap) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *OrderedMap) Keys() []string {
	return m.keys
}

// Len returns the number of keys.
func (m *OrderedMap) Len() int {
	return len(m.keys)
}

// MarshalJSON implements json.Marshaler preserving insertion order.
func (m *OrderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
