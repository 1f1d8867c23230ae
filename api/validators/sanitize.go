package validators

import "strings"

// SanitizeString trims surrounding whitespace and caps the length. Used on
// free-text query values (barcodes, failure-reason filters) before they
// reach a store query.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		trimmed = trimmed[:maxLen]
	}
	return trimmed
}
