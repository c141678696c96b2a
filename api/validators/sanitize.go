package validators

import (
	"strings"
	"unicode/utf8"
)

// SanitizeString trims input and cuts it to at most maxLen bytes without
// splitting a multi-byte character. maxLen <= 0 means no limit.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen <= 0 || len(trimmed) <= maxLen {
		return trimmed
	}
	for maxLen > 0 && !utf8.RuneStart(trimmed[maxLen]) {
		maxLen--
	}
	return strings.TrimSpace(trimmed[:maxLen])
}
