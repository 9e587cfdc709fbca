// Package htmlutils provides small text helpers for markup taken from third-party
// documents: tag stripping, whitespace folding, rune truncation and URL vetting.
package htmlutils

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

var tagRegex = regexp.MustCompile(`<(/?)([a-zA-Z0-9-]+)([^>]*)>`)

// dangerousProtocols lists URL schemes never emitted into markup.
var dangerousProtocols = []string{
	"javascript:",
	"vbscript:",
	"data:",
}

// StripHTMLTags removes all HTML tags from text, keeping only the content.
func StripHTMLTags(text string) string {
	result := tagRegex.ReplaceAllString(text, "")
	result = html.UnescapeString(result)

	return strings.TrimSpace(result)
}

// CollapseWhitespace folds every whitespace run into a single space.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Truncate cuts s to at most limit runes, marking the cut with an ellipsis that
// counts toward the limit. A non-positive limit disables truncation.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)

	if limit <= len(ellipsis) {
		return string(runes[:limit])
	}

	return strings.TrimRightFunc(string(runes[:limit-len(ellipsis)]), isSpace) + ellipsis
}

// IsSafeURL reports whether the URL is non-empty and uses no script-capable scheme.
func IsSafeURL(raw string) bool {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return false
	}

	for _, proto := range dangerousProtocols {
		if strings.HasPrefix(lower, proto) {
			return false
		}
	}

	return true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
