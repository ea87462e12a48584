package app

import (
	"regexp"
	"strings"
)

// Favorites statements are short, but the cap keeps span attributes bounded
// if the store ever grows multi-row inserts.
const maxTracedQueryLength = 512

var sqlWhitespace = regexp.MustCompile(`\s+`)

// formatDBQueryForTrace collapses whitespace and truncates the statement
// before otelsql records it as a span attribute.
func formatDBQueryForTrace(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	flattened := sqlWhitespace.ReplaceAllString(query, " ")
	if len(flattened) <= maxTracedQueryLength {
		return flattened
	}

	return flattened[:maxTracedQueryLength] + "..."
}
