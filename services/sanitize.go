package services

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// maxSanitizePasses bounds the unescape loop for deeply entity-encoded input
const maxSanitizePasses = 8

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from free text entered by users. Its result is stable:
// sanitizing it again returns it unchanged, so re-saving a record never rewrites it.
func SanitizeText(s string) string {
	s = strings.TrimSpace(s)
	for i := 0; i < maxSanitizePasses && s != ""; i++ {
		// StrictPolicy escapes entities; unescape so plain text round-trips unchanged.
		// Unescaping can expose markup that was entity-encoded, so repeat until stable.
		next := strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
		if next == s {
			break
		}
		s = next
	}
	return s
}
