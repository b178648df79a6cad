package history

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/talktrace/talktrace/model"
	"github.com/talktrace/talktrace/services"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type recordPage struct {
	Items    []model.SessionRecord `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

func newHistoryApp(t *testing.T) *fiber.App {
	t.Helper()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	source := services.NewMemorySessionSource([]model.SessionRecord{
		{SessionID: "s1", UserQuery: "How do I parse JSON in Go?", AIResponse: "Use encoding/json.",
			UserRating: 5, ModelID: "gpt-4o-mini", CreatedAt: base},
		{SessionID: "s2", UserQuery: "Recommend an index fund", AIResponse: "Look at broad-market funds.",
			UserRating: 3, ModelID: "gpt-4o", CreatedAt: base.Add(time.Hour)},
		{SessionID: "s3", UserQuery: "Explain goroutines", AIResponse: "Goroutines are lightweight threads.",
			ModelID: "gpt-4o-mini", CreatedAt: base.Add(2 * time.Hour)},
	})
	handler := NewHistoryHandler(services.NewHistoryService(source, nil))

	app := fiber.New()
	api := app.Group("/api/v1/history")
	api.Get("/search", handler.Search)
	api.Get("/models", handler.Models)
	api.Get("/health", handler.Health)
	api.Get("/sessions/:sessionId", handler.SessionDetails)
	return app
}

func getJSON(t *testing.T, app *fiber.App, target string) (int, envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil), -1)
	if err != nil {
		t.Fatalf("request %s failed: %v", target, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading %s body: %v", target, err)
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("decoding %s response %q: %v", target, body, err)
	}
	return resp.StatusCode, env
}

func TestSearchEndpointFiltersByRatingRange(t *testing.T) {
	app := newHistoryApp(t)

	status, env := getJSON(t, app, "/api/v1/history/search?ratingRange=4,5")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, success = %v", status, env.Success)
	}

	var page recordPage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatalf("decoding page: %v", err)
	}
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].SessionID != "s1" {
		t.Errorf("page = %+v, want only s1", page)
	}
}

func TestSearchEndpointRejectsMalformedRatingRange(t *testing.T) {
	app := newHistoryApp(t)

	for _, raw := range []string{"4", "a,b", "3,9", "4,2", "-1,3"} {
		status, env := getJSON(t, app, "/api/v1/history/search?ratingRange="+raw)
		if status != http.StatusBadRequest {
			t.Errorf("ratingRange=%q: status = %d, want 400", raw, status)
		}
		if env.Success || env.Error == nil || env.Error.Code != "BAD_REQUEST" {
			t.Errorf("ratingRange=%q: envelope = %+v, want BAD_REQUEST error", raw, env)
		}
	}
}

func TestSearchEndpointRejectsInvalidTimeRange(t *testing.T) {
	app := newHistoryApp(t)

	if status, _ := getJSON(t, app, "/api/v1/history/search?startTime=not-a-time"); status != http.StatusBadRequest {
		t.Errorf("bad startTime: status = %d, want 400", status)
	}
	if status, _ := getJSON(t, app,
		"/api/v1/history/search?startTime=2024-06-01T12:00:00Z&endTime=2024-06-01T10:00:00Z"); status != http.StatusBadRequest {
		t.Errorf("endTime before startTime: status = %d, want 400", status)
	}
}

func TestSearchEndpointPageSizeAlias(t *testing.T) {
	app := newHistoryApp(t)

	for _, target := range []string{
		"/api/v1/history/search?pageSize=1",
		"/api/v1/history/search?page_size=1",
	} {
		status, env := getJSON(t, app, target)
		if status != http.StatusOK {
			t.Fatalf("%s: status = %d", target, status)
		}
		var page recordPage
		if err := json.Unmarshal(env.Data, &page); err != nil {
			t.Fatalf("decoding page: %v", err)
		}
		if page.PageSize != 1 || len(page.Items) != 1 {
			t.Errorf("%s: page_size = %d with %d items, want 1 and 1", target, page.PageSize, len(page.Items))
		}
	}
}

func TestSessionDetailsEndpointUnknownSession(t *testing.T) {
	app := newHistoryApp(t)

	status, env := getJSON(t, app, "/api/v1/history/sessions/ghost")
	if status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", status)
	}
	if env.Error == nil || env.Error.Code != "NOT_FOUND" {
		t.Errorf("envelope = %+v, want NOT_FOUND error", env)
	}
}

func TestModelsEndpointReturnsDistinctModels(t *testing.T) {
	app := newHistoryApp(t)

	status, env := getJSON(t, app, "/api/v1/history/models")
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	var models []string
	if err := json.Unmarshal(env.Data, &models); err != nil {
		t.Fatalf("decoding models: %v", err)
	}
	if len(models) != 2 || models[0] != "gpt-4o" || models[1] != "gpt-4o-mini" {
		t.Errorf("models = %v, want sorted [gpt-4o gpt-4o-mini]", models)
	}
}
