package model

import (
	"encoding/json"
	"testing"
)

func TestParseAnalysisInfoValidJSON(t *testing.T) {
	info := ParseAnalysisInfo(`{"reviewer_round": 2, "source": "manual"}`)
	if info["source"] != "manual" {
		t.Errorf("info = %v, want parsed object", info)
	}
	if _, hasRaw := info["raw"]; hasRaw {
		t.Error("valid JSON must not fall back to the raw key")
	}
}

func TestParseAnalysisInfoFallsBackToRaw(t *testing.T) {
	cases := []string{"not json at all", "{broken", "[1,2"}
	for _, raw := range cases {
		info := ParseAnalysisInfo(raw)
		if info["raw"] != raw {
			t.Errorf("ParseAnalysisInfo(%q) = %v, want raw fallback", raw, info)
		}
	}
}

func TestParseAnalysisInfoEmpty(t *testing.T) {
	if info := ParseAnalysisInfo(""); info != nil {
		t.Errorf("empty input: got %v, want nil", info)
	}
}

func TestAnalysisColumnNilStoresNull(t *testing.T) {
	var col AnalysisColumn
	v, err := col.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	if v != nil {
		t.Errorf("nil analysis Value = %v, want SQL NULL", v)
	}

	out, err := json.Marshal(col)
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}
	if string(out) != "null" {
		t.Errorf("MarshalJSON = %s, want null", out)
	}
}

func TestAnalysisColumnRoundTrip(t *testing.T) {
	col := AnalysisColumn{Analysis: &Analysis{
		IssueType:               "hallucination",
		RootCause:               "missing evidence chunk",
		QualityScores: QualityScores{
			ContextUnderstanding: 3,
			AnswerAccuracy:       2,
			AnswerCompleteness:   3,
			Clarity:              4,
			CitationQuality:      3,
		},
		OptimizationSuggestions: []string{"add reranker"},
		AnalyzedBy:              "qa@company.com",
	}}

	v, err := col.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}

	var restored AnalysisColumn
	if err := restored.Scan(v); err != nil {
		t.Fatalf("Scan returned error: %v", err)
	}
	if restored.Analysis == nil || restored.Analysis.IssueType != "hallucination" {
		t.Errorf("restored = %+v", restored.Analysis)
	}
	if restored.Analysis.QualityScores.AnswerAccuracy != 2 {
		t.Errorf("scores did not survive the round trip: %+v", restored.Analysis.QualityScores)
	}
}

func TestAnalysisColumnScanNull(t *testing.T) {
	var col AnalysisColumn
	if err := col.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) returned error: %v", err)
	}
	if col.Analysis != nil {
		t.Error("NULL column must scan to a nil analysis")
	}
}

func TestImportTaskStatusTerminal(t *testing.T) {
	terminal := map[ImportTaskStatus]bool{
		TaskStatusPending:   false,
		TaskStatusRunning:   false,
		TaskStatusCompleted: true,
		TaskStatusFailed:    true,
	}
	for status, want := range terminal {
		if got := status.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", status, got, want)
		}
	}
}
