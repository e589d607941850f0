package handlers

import (
	"regexp"
	"strings"
)

type cardBrandPattern struct {
	brand   string
	pattern *regexp.Regexp
}

// Ordered: first match wins.
var cardBrandPatterns = []cardBrandPattern{
	{"Visa", regexp.MustCompile(`^4`)},
	{"Mastercard", regexp.MustCompile(`^5[1-5]`)},
	{"Amex", regexp.MustCompile(`^3[47]`)},
	{"Discover", regexp.MustCompile(`^6(011|5)`)},
	{"JCB", regexp.MustCompile(`^(2131|1800|35)`)},
}

// detectCardBrand classifies a raw card number by its numeric prefix. No
// Luhn or length validation is performed; unmatched prefixes are "Unknown".
func detectCardBrand(number string) string {
	cleaned := strings.Join(strings.Fields(number), "")
	for _, p := range cardBrandPatterns {
		if p.pattern.MatchString(cleaned) {
			return p.brand
		}
	}
	return "Unknown"
}

// cardLast4 keeps only the last four digits for storage.
func cardLast4(number string) string {
	cleaned := strings.Join(strings.Fields(number), "")
	if len(cleaned) <= 4 {
		return cleaned
	}
	return cleaned[len(cleaned)-4:]
}
