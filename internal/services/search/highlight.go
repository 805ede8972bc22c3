package search

import (
	"regexp"
	"strings"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// Highlight wraps every case-insensitive occurrence of query in <mark> tags. The text
// between matches is left byte for byte as it was.
func Highlight(text, query string) string {
	if strings.TrimSpace(query) == "" {
		return text
	}
	pattern := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(query))
	return pattern.ReplaceAllStringFunc(text, func(match string) string {
		return markOpen + match + markClose
	})
}

// StripHighlight undoes Highlight for the same query. Only tags wrapping a match are
// removed, so <mark> text already present in the segment survives.
func StripHighlight(s, query string) string {
	if strings.TrimSpace(query) == "" {
		return s
	}
	pattern := regexp.MustCompile(regexp.QuoteMeta(markOpen) + `((?i:` + regexp.QuoteMeta(query) + `))` + regexp.QuoteMeta(markClose))
	return pattern.ReplaceAllString(s, "${1}")
}
