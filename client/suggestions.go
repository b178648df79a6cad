package client

import "strings"

// JoinSuggestions renders an optimization suggestion list as the
// newline-delimited text an edit form shows
func JoinSuggestions(suggestions []string) string {
	return strings.Join(suggestions, "\n")
}

// SplitSuggestions parses newline-delimited form text back into a
// suggestion list, dropping blank lines
func SplitSuggestions(text string) []string {
	var suggestions []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			suggestions = append(suggestions, line)
		}
	}
	return suggestions
}

// SessionIDsParam joins selected session ids for the sessionIds URL
// parameter linking history selection to the import flow
func SessionIDsParam(ids []string) string {
	return strings.Join(ids, ",")
}

// ParseSessionIDsParam splits a sessionIds URL parameter, dropping
// empty segments
func ParseSessionIDsParam(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
