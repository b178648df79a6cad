package timeutil

import (
	"strings"
	"time"
)

// DisplayLayout is the layout used for user-facing timestamps
const DisplayLayout = "2006-01-02 15:04:05"

// Normalize repairs the malformed "+00:00Z" suffix some upstream
// sources emit by stripping the redundant trailing Z. Any other value
// is returned unchanged.
func Normalize(raw string) string {
	if strings.HasSuffix(raw, "+00:00Z") {
		return strings.TrimSuffix(raw, "Z")
	}
	return raw
}

// Parse parses an ISO timestamp after normalization. It accepts
// RFC3339 with or without fractional seconds and the bare
// "2006-01-02T15:04:05" form.
func Parse(raw string) (time.Time, error) {
	s := Normalize(raw)

	layouts := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
	}

	var firstErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// Display formats a raw timestamp for display. When parsing fails the
// raw string is returned as-is, never an error.
func Display(raw string) string {
	t, err := Parse(raw)
	if err != nil {
		return raw
	}
	return t.Format(DisplayLayout)
}
