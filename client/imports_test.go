package client

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"testing"

	"github.com/talktrace/talktrace/model"
)

func TestExecuteImportBodyCarriesSkipFlag(t *testing.T) {
	var body struct {
		SessionIDs     []string       `json:"session_ids"`
		Config         map[string]any `json:"config"`
		SkipDuplicates bool           `json:"skip_duplicates"`
	}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding execute body: %v", err)
		}
		writeEnvelope(w, map[string]any{"task_id": "IMPORT-1", "status": "pending", "total": 2})
	}))

	ticket, err := c.ExecuteImport(context.Background(), []string{"s1", "s2"}, ImportConfig{
		DefaultOwner:   "qa@company.com",
		SkipDuplicates: true,
	})
	if err != nil {
		t.Fatalf("ExecuteImport returned error: %v", err)
	}
	if ticket.TaskID != "IMPORT-1" {
		t.Errorf("ticket = %+v", ticket)
	}

	if !body.SkipDuplicates {
		t.Error("skip_duplicates must travel at the top level of the request body")
	}
	if _, ok := body.Config["skip_duplicates"]; ok {
		t.Error("skip_duplicates must not leak into the config object")
	}
	if body.Config["default_owner"] != "qa@company.com" {
		t.Errorf("config = %v", body.Config)
	}
}

func TestSessionIDsForImport(t *testing.T) {
	original := []string{"s1", "s2", "s3"}
	validation := &model.ImportValidationResult{
		ValidSessions: []string{"s2", "s3"},
		DuplicateSessions: []model.DuplicateSessionInfo{
			{SessionID: "s1", ExistingTestCaseID: "TC-OLD"},
		},
		DuplicateCount: 1,
		TotalCount:     3,
	}

	skipped := SessionIDsForImport(validation, original, true)
	if !reflect.DeepEqual(skipped, validation.ValidSessions) {
		t.Errorf("skip duplicates: got %v, want only valid sessions", skipped)
	}

	full := SessionIDsForImport(validation, original, false)
	if !reflect.DeepEqual(full, original) {
		t.Errorf("import all: got %v, want the full original selection", full)
	}

	// The submitted set is never smaller than valid or larger than original
	if len(skipped) < len(validation.ValidSessions) || len(full) > len(original) {
		t.Error("selection bounds violated")
	}
}

func TestSessionIDsForImportWithoutValidation(t *testing.T) {
	original := []string{"s1"}
	if got := SessionIDsForImport(nil, original, true); !reflect.DeepEqual(got, original) {
		t.Errorf("nil validation must pass the original set through, got %v", got)
	}
}
