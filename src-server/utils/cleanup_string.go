package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CleanupString normalizes a scraped feed summary for display: collapse
// runs of whitespace, title-case the words, drop a trailing period.
// School feeds are inconsistent about all three.
func CleanupString(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = cases.Title(language.English).String(s)
	return strings.TrimSuffix(s, ".")
}
