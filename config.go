package mhracrawl

import (
	"strings"
	"time"
)

// Default crawl settings, matching the public site's published structure
// and a politeness profile that has proven safe against it.
const (
	DefaultBaseURL            = "https://products.mhra.gov.uk"
	DefaultSubstanceIndexPath = "/substance-index/?letter={letter}"

	DefaultNavigationTimeoutMS = 90000
	DefaultSelectorTimeoutMS   = 5000
	DefaultRequestDelayMS      = 150
	DefaultMaxRetries          = 3
)

// DefaultLetters returns the full traversal set: A–Z then 0–9.
func DefaultLetters() []string {
	letters := make([]string, 0, 36)
	for c := 'A'; c <= 'Z'; c++ {
		letters = append(letters, string(c))
	}
	for c := '0'; c <= '9'; c++ {
		letters = append(letters, string(c))
	}
	return letters
}

// Config holds the full configuration surface consumed by the crawl.
// Durations are stored as milliseconds so the struct round-trips through
// a plain YAML file.
type Config struct {
	// BaseURL is the root of the source site. Relative links harvested
	// from pages are resolved against it.
	BaseURL string `yaml:"base_url"`

	// SubstanceIndexPath is the letter index path template; the literal
	// "{letter}" is substituted with each configured symbol.
	SubstanceIndexPath string `yaml:"substance_index_path"`

	// Letters is the ordered set of letter/digit symbols to traverse.
	Letters []string `yaml:"letters"`

	// Headless controls whether the browser runs without a window.
	Headless bool `yaml:"headless"`

	NavigationTimeoutMS int `yaml:"navigation_timeout_ms"`
	SelectorTimeoutMS   int `yaml:"selector_timeout_ms"`
	RequestDelayMS      int `yaml:"request_delay_ms"`
	MaxRetries          int `yaml:"max_retries"`

	// Sampling caps bound exploratory runs. Zero means unlimited.
	MaxSubstances int `yaml:"max_substances"` // per letter
	MaxProducts   int `yaml:"max_products"`   // per substance
	MaxDocuments  int `yaml:"max_documents"`  // per product
}

// DefaultConfig returns the configuration for a full production run.
func DefaultConfig() Config {
	return Config{
		BaseURL:             DefaultBaseURL,
		SubstanceIndexPath:  DefaultSubstanceIndexPath,
		Letters:             DefaultLetters(),
		Headless:            true,
		NavigationTimeoutMS: DefaultNavigationTimeoutMS,
		SelectorTimeoutMS:   DefaultSelectorTimeoutMS,
		RequestDelayMS:      DefaultRequestDelayMS,
		MaxRetries:          DefaultMaxRetries,
	}
}

// Validate returns an error if the configuration cannot drive a run.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return Errorf(EINVALID, "base URL required")
	}
	if !strings.Contains(c.SubstanceIndexPath, "{letter}") {
		return Errorf(EINVALID, "substance index path must contain the {letter} placeholder")
	}
	if len(c.Letters) == 0 {
		return Errorf(EINVALID, "at least one letter required")
	}
	if c.MaxRetries < 1 {
		return Errorf(EINVALID, "max retries must be at least 1")
	}
	return nil
}

// LetterIndexPath returns the relative substance-index path for a letter.
func (c *Config) LetterIndexPath(letter string) string {
	return strings.ReplaceAll(c.SubstanceIndexPath, "{letter}", letter)
}

// NavigationTimeout returns the per-navigation timeout as a duration.
func (c *Config) NavigationTimeout() time.Duration {
	return time.Duration(c.NavigationTimeoutMS) * time.Millisecond
}

// SelectorTimeout returns the child-discovery wait as a duration.
func (c *Config) SelectorTimeout() time.Duration {
	return time.Duration(c.SelectorTimeoutMS) * time.Millisecond
}

// RequestDelay returns the politeness delay as a duration.
func (c *Config) RequestDelay() time.Duration {
	return time.Duration(c.RequestDelayMS) * time.Millisecond
}
