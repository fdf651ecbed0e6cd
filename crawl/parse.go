package crawl

import (
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var (
	whitespaceRE       = regexp.MustCompile(`\s+`)
	fileSizeRE         = regexp.MustCompile(`(?i)file size\s*:\s*([0-9]+(?:\.[0-9]+)?)\s*(kb|mb)`)
	activeSubstancesRE = regexp.MustCompile(`(?i)active substances\s*:\s*(.+)`)
	listSeparatorRE    = regexp.MustCompile(`[,;]`)
)

// NormalizeWhitespace collapses runs of whitespace to single spaces and
// trims the result.
func NormalizeWhitespace(value string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(value, " "))
}

// ParseFileSize extracts a file size in kilobytes from a metadata line
// such as "File size: 2.5 MB". Megabytes are converted at 1024 KB and
// rounded to the nearest integer. Returns nil when no recognizable
// size/unit pattern is present; unknown units are treated as unparseable
// rather than rejected.
func ParseFileSize(metadata string) *int {
	m := fileSizeRE.FindStringSubmatch(metadata)
	if m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	var kb int
	switch strings.ToLower(m[2]) {
	case "kb":
		kb = int(math.Round(value))
	case "mb":
		kb = int(math.Round(value * 1024))
	default:
		return nil
	}
	return &kb
}

// ParseActiveSubstances extracts the substance names from a metadata
// line such as "Active substances: Paracetamol, Caffeine; Codeine".
// Entries are split on commas and semicolons, whitespace-normalized, and
// empty entries dropped. Returns an empty list when the prefix is absent.
func ParseActiveSubstances(metadata string) []string {
	m := activeSubstancesRE.FindStringSubmatch(metadata)
	if m == nil {
		return []string{}
	}
	parts := listSeparatorRE.Split(m[1], -1)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if normalized := NormalizeWhitespace(part); normalized != "" {
			result = append(result, normalized)
		}
	}
	return result
}

// ResolveURL resolves a possibly-relative href against a base URL.
// Unparseable input is returned as-is.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}
