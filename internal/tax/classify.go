package tax

import "strings"

const importedKeyword = "imported"

// exemptKeywords are the basic-necessity categories exempt from the base rate.
// Matching is by substring, so "books" and "chocolates" count too.
var exemptKeywords = []string{"book", "pill", "chocolate"}

// IsImported reports whether text mentions "imported", ignoring case
func IsImported(text string) bool {
	return strings.Contains(strings.ToLower(text), importedKeyword)
}

// IsTaxExempt reports whether text contains any exempt keyword, ignoring case
func IsTaxExempt(text string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range exemptKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
