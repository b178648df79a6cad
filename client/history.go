package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/talktrace/talktrace/model"
)

// DefaultModels is the fallback model list used when the models
// endpoint returns an unusable payload
var DefaultModels = []string{"gpt-4o-mini", "gpt-4o", "claude-3-sonnet"}

// HistoryFilter carries the history search parameters
type HistoryFilter struct {
	StartTime   time.Time
	EndTime     time.Time
	ModelIDs    []string
	RatingRange *[2]int
	Keywords    string
	Page        int
	PageSize    int
}

// Encode renders the filter as URL query values
func (f HistoryFilter) Encode() url.Values {
	q := url.Values{}
	if !f.StartTime.IsZero() {
		q.Set("startTime", f.StartTime.Format(time.RFC3339))
	}
	if !f.EndTime.IsZero() {
		q.Set("endTime", f.EndTime.Format(time.RFC3339))
	}
	if len(f.ModelIDs) > 0 {
		q.Set("modelIds", strings.Join(f.ModelIDs, ","))
	}
	if f.RatingRange != nil {
		q.Set("ratingRange", fmt.Sprintf("%d,%d", f.RatingRange[0], f.RatingRange[1]))
	}
	if f.Keywords != "" {
		q.Set("keywords", f.Keywords)
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	return q
}

// SearchHistory returns one filtered page of session records
func (c *Client) SearchHistory(ctx context.Context, filter HistoryFilter) (*PageResult[model.SessionRecord], error) {
	return getPage[model.SessionRecord](ctx, c, "/history/search", filter.Encode())
}

// SessionDetails returns the per-turn detail of one session
func (c *Client) SessionDetails(ctx context.Context, sessionID string) ([]model.SessionDetail, error) {
	var details []model.SessionDetail
	if err := c.get(ctx, "/history/sessions/"+url.PathEscape(sessionID), nil, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// Models returns the distinct model IDs seen in the history. Any
// failure or unusable payload falls back to DefaultModels so filter
// UIs always have something to offer.
func (c *Client) Models(ctx context.Context) []string {
	var raw json.RawMessage
	if err := c.get(ctx, "/history/models", nil, &raw); err != nil {
		return append([]string(nil), DefaultModels...)
	}

	if models, ok := decodeModelList(raw); ok {
		return models
	}
	return append([]string(nil), DefaultModels...)
}

// decodeModelList accepts a bare array or a nested {data: array}
// variant. Anything else reports not-ok.
func decodeModelList(raw json.RawMessage) ([]string, bool) {
	var models []string
	if err := json.Unmarshal(raw, &models); err == nil && len(models) > 0 {
		return models, true
	}

	var wrapped struct {
		Data []string `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		return wrapped.Data, true
	}

	return nil, false
}

// HistoryHealthy reports whether the history source is reachable
func (c *Client) HistoryHealthy(ctx context.Context) bool {
	return c.get(ctx, "/history/health", nil, nil) == nil
}
