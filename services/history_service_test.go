package services

import (
	"context"
	"testing"
	"time"

	"github.com/talktrace/talktrace/model"
)

func historyFixture() *MemorySessionSource {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return NewMemorySessionSource([]model.SessionRecord{
		{
			SessionID:  "s1",
			UserQuery:  "How do I parse JSON in Go?",
			AIResponse: "Use encoding/json.",
			UserRating: 5,
			ModelID:    "gpt-4o-mini",
			CreatedAt:  base,
		},
		{
			SessionID:  "s2",
			UserQuery:  "Recommend an index fund",
			AIResponse: "Look at broad-market funds.",
			UserRating: 3,
			ModelID:    "gpt-4o",
			CreatedAt:  base.Add(time.Hour),
		},
		{
			SessionID:  "s3",
			UserQuery:  "Explain goroutines",
			AIResponse: "Goroutines are lightweight threads.",
			UserRating: 0,
			ModelID:    "gpt-4o-mini",
			CreatedAt:  base.Add(2 * time.Hour),
		},
	})
}

func TestSearchReturnsNewestFirst(t *testing.T) {
	svc := NewHistoryService(historyFixture(), nil)

	page, err := svc.Search(model.HistorySearchRequest{})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if page.Total != 3 {
		t.Fatalf("Total = %d, want 3", page.Total)
	}
	if page.Items[0].SessionID != "s3" || page.Items[2].SessionID != "s1" {
		t.Errorf("items not newest first: %s, %s, %s",
			page.Items[0].SessionID, page.Items[1].SessionID, page.Items[2].SessionID)
	}
}

func TestSearchFiltersByModelAndRating(t *testing.T) {
	svc := NewHistoryService(historyFixture(), nil)

	page, err := svc.Search(model.HistorySearchRequest{
		ModelIDs:    []string{"gpt-4o-mini"},
		RatingRange: &[2]int{4, 5},
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if page.Total != 1 || page.Items[0].SessionID != "s1" {
		t.Errorf("got %d items, want only s1", page.Total)
	}
}

func TestSearchFiltersByKeywordsAndTime(t *testing.T) {
	svc := NewHistoryService(historyFixture(), nil)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	page, err := svc.Search(model.HistorySearchRequest{
		Keywords:  "fund",
		StartTime: base.Add(30 * time.Minute),
		EndTime:   base.Add(90 * time.Minute),
	})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if page.Total != 1 || page.Items[0].SessionID != "s2" {
		t.Errorf("got %d items, want only s2", page.Total)
	}
}

func TestSearchPaginationClamps(t *testing.T) {
	svc := NewHistoryService(historyFixture(), nil)

	page, err := svc.Search(model.HistorySearchRequest{Page: 2, PageSize: 2})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(page.Items) != 1 {
		t.Errorf("page 2 of size 2 over 3 records has %d items, want 1", len(page.Items))
	}
	if page.TotalPages != 2 {
		t.Errorf("TotalPages = %d, want 2", page.TotalPages)
	}

	// Out-of-range pages return an empty slice, not an error
	page, err = svc.Search(model.HistorySearchRequest{Page: 10, PageSize: 2})
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(page.Items) != 0 {
		t.Errorf("out-of-range page has %d items, want 0", len(page.Items))
	}
}

func TestSessionDetailsOrderedOldestFirst(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	source := NewMemorySessionSource([]model.SessionRecord{
		{SessionID: "s1", UserQuery: "second", CreatedAt: base.Add(time.Minute)},
		{SessionID: "s1", UserQuery: "first", CreatedAt: base},
	})
	svc := NewHistoryService(source, nil)

	details, err := svc.SessionDetails("s1")
	if err != nil {
		t.Fatalf("SessionDetails returned error: %v", err)
	}
	if len(details) != 2 || details[0].UserQuery != "first" {
		t.Errorf("details not oldest first: %+v", details)
	}
}

func TestSessionDetailsUnknownID(t *testing.T) {
	svc := NewHistoryService(historyFixture(), nil)
	if _, err := svc.SessionDetails("nope"); err == nil {
		t.Fatal("expected error for unknown session")
	}
}

func TestModelIDsDistinctSorted(t *testing.T) {
	svc := NewHistoryService(historyFixture(), nil)

	models, err := svc.ModelIDs(context.Background())
	if err != nil {
		t.Fatalf("ModelIDs returned error: %v", err)
	}
	want := []string{"gpt-4o", "gpt-4o-mini"}
	if len(models) != len(want) {
		t.Fatalf("models = %v, want %v", models, want)
	}
	for i := range want {
		if models[i] != want[i] {
			t.Errorf("models[%d] = %q, want %q", i, models[i], want[i])
		}
	}
}
