package services

import (
	"testing"
	"time"

	"github.com/talktrace/talktrace/model"
)

func TestEarliestBySourceSessionPrefersOldestImport(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	cases := []model.TestCase{
		{ID: "TC-LATER", SourceSession: "s1", CreatedDate: base.Add(2 * time.Hour)},
		{ID: "TC-FIRST", SourceSession: "s1", CreatedDate: base},
		{ID: "TC-OTHER", SourceSession: "s2", CreatedDate: base.Add(time.Hour)},
	}

	found := earliestBySourceSession(cases)
	if len(found) != 2 {
		t.Fatalf("found %d sessions, want 2", len(found))
	}
	if found["s1"].ID != "TC-FIRST" {
		t.Errorf("s1 resolved to %q, want the earliest import TC-FIRST", found["s1"].ID)
	}
	if found["s2"].ID != "TC-OTHER" {
		t.Errorf("s2 resolved to %q", found["s2"].ID)
	}
}

func TestEarliestBySourceSessionEmpty(t *testing.T) {
	if found := earliestBySourceSession(nil); len(found) != 0 {
		t.Errorf("empty input must yield an empty map, got %v", found)
	}
}
