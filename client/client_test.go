package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func writeEnvelope(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func TestListDecodesPagePayload(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]interface{}{
			"items":       []map[string]string{{"id": "TC-1"}, {"id": "TC-2"}},
			"total":       2,
			"page":        1,
			"page_size":   20,
			"total_pages": 1,
		})
	}))

	page, err := c.ListTestCases(context.Background(), TestCaseFilter{})
	if err != nil {
		t.Fatalf("ListTestCases returned error: %v", err)
	}
	if len(page.Items) != 2 || page.Total != 2 {
		t.Errorf("page = %+v, want 2 items", page)
	}
}

func TestListDecodesDoubleWrappedPayload(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Older builds wrap the page one level deeper
		writeEnvelope(w, map[string]interface{}{
			"data": map[string]interface{}{
				"items": []map[string]string{{"id": "TC-1"}},
				"total": 1,
			},
		})
	}))

	page, err := c.ListTestCases(context.Background(), TestCaseFilter{})
	if err != nil {
		t.Fatalf("ListTestCases returned error: %v", err)
	}
	if len(page.Items) != 1 {
		t.Errorf("got %d items, want 1 from the nested payload", len(page.Items))
	}
}

func TestListDecodesRawArrayPayload(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, []map[string]string{{"id": "TC-1"}, {"id": "TC-2"}, {"id": "TC-3"}})
	}))

	page, err := c.ListTestCases(context.Background(), TestCaseFilter{})
	if err != nil {
		t.Fatalf("ListTestCases returned error: %v", err)
	}
	if len(page.Items) != 3 || page.Total != 3 {
		t.Errorf("page = %+v, want 3 synthesized items", page)
	}
}

func TestErrorEnvelopeBecomesAPIError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error":   map[string]string{"code": "NOT_FOUND", "message": "Test case not found"},
		})
	}))

	_, err := c.GetTestCase(context.Background(), "TC-missing")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %v (%T), want *APIError", err, err)
	}
	if apiErr.Code != "NOT_FOUND" {
		t.Errorf("Code = %q, want NOT_FOUND", apiErr.Code)
	}
}

func TestModelsFallsBackOnUnusablePayload(t *testing.T) {
	payloads := []interface{}{
		map[string]string{"oops": "wrong shape"},
		"just a string",
		nil,
	}
	for _, payload := range payloads {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, payload)
		}))
		if got := c.Models(context.Background()); !reflect.DeepEqual(got, DefaultModels) {
			t.Errorf("Models with payload %v = %v, want fallback %v", payload, got, DefaultModels)
		}
	}
}

func TestModelsAcceptsArrayAndNestedVariants(t *testing.T) {
	want := []string{"m1", "m2"}

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, want)
	}))
	if got := c.Models(context.Background()); !reflect.DeepEqual(got, want) {
		t.Errorf("bare array: got %v", got)
	}

	c = newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, map[string]interface{}{"data": want})
	}))
	if got := c.Models(context.Background()); !reflect.DeepEqual(got, want) {
		t.Errorf("nested data: got %v", got)
	}
}

func TestTestCaseFilterRoundTrip(t *testing.T) {
	original := TestCaseFilter{
		Page:     3,
		PageSize: 50,
		Status:   "approved",
		Domain:   "finance",
		Priority: "high",
		Search:   "fund",
	}

	decoded := DecodeTestCaseFilter(original.Encode())
	if decoded != original {
		t.Errorf("round trip: got %+v, want %+v", decoded, original)
	}

	// The encoded form uses the backend's page_size name
	if got := original.Encode().Get("page_size"); got != "50" {
		t.Errorf("page_size = %q, want 50", got)
	}
	if original.Encode().Has("pageSize") {
		t.Error("encoded filter must not carry the client-side pageSize name")
	}
}

func TestDecodeFilterAcceptsPageSizeAlias(t *testing.T) {
	q := url.Values{}
	q.Set("pageSize", "25")
	if got := DecodeTestCaseFilter(q).PageSize; got != 25 {
		t.Errorf("PageSize = %d, want 25 via alias", got)
	}
}

func TestSuggestionsRoundTrip(t *testing.T) {
	original := []string{"tighten the prompt", "add retrieval rerank", "lower temperature"}
	text := JoinSuggestions(original)
	if got := SplitSuggestions(text); !reflect.DeepEqual(got, original) {
		t.Errorf("round trip: got %v, want %v", got, original)
	}

	// Blank lines are dropped on the way back
	if got := SplitSuggestions("a\n\n  \nb\n"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("blank handling: got %v", got)
	}
}

func TestSessionIDsParamRoundTrip(t *testing.T) {
	ids := []string{"id1", "id2", "id3"}
	if got := ParseSessionIDsParam(SessionIDsParam(ids)); !reflect.DeepEqual(got, ids) {
		t.Errorf("round trip: got %v, want %v", got, ids)
	}
	if got := ParseSessionIDsParam("a,,b,"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("empty segments: got %v", got)
	}
}
