package core

import (
	"regexp"
	"strings"
)

// fieldDelimiter matches a vertical bar with optional surrounding whitespace.
var fieldDelimiter = regexp.MustCompile(`\s*\|\s*`)

// splitField splits a delimited field into trimmed, non-empty tokens.
// An absent field yields an empty slice. Duplicates are preserved.
func splitField(raw *string) []string {
	if raw == nil {
		return []string{}
	}
	parts := fieldDelimiter.Split(*raw, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// SplitRecipients turns the raw recipient field into an ordered sequence of recipient names.
// Each duplicate represents an independent sent copy and is kept.
func SplitRecipients(raw *string) []string {
	return splitField(raw)
}
