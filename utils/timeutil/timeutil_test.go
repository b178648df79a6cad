package timeutil

import (
	"testing"
	"time"
)

func TestNormalizeStripsRedundantZ(t *testing.T) {
	cases := map[string]string{
		"2024-01-01T10:00:00+00:00Z": "2024-01-01T10:00:00+00:00",
		"2024-01-01T10:00:00Z":       "2024-01-01T10:00:00Z",
		"2024-01-01T10:00:00+05:30":  "2024-01-01T10:00:00+05:30",
		"":                           "",
	}
	for input, want := range cases {
		if got := Normalize(input); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestParseMalformedSuffix(t *testing.T) {
	got, err := Parse("2024-01-01T10:00:00+00:00Z")
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	want := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Parse = %v, want %v", got, want)
	}
}

func TestDisplayFormatsParsedTimestamps(t *testing.T) {
	if got := Display("2024-01-01T10:00:00+00:00Z"); got != "2024-01-01 10:00:00" {
		t.Errorf("Display = %q, want %q", got, "2024-01-01 10:00:00")
	}
}

func TestDisplayFallsBackToRawString(t *testing.T) {
	raw := "not-a-timestamp"
	if got := Display(raw); got != raw {
		t.Errorf("Display(%q) = %q, want the raw input back", raw, got)
	}
}
