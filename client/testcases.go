package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/talktrace/talktrace/model"
)

// TestCaseFilter carries the catalog list filters. It round-trips
// through URL query values so a filtered view is bookmarkable.
type TestCaseFilter struct {
	Page     int
	PageSize int
	Status   string
	Domain   string
	Priority string
	Search   string
}

// Encode renders the filter as URL query values. The client-side
// PageSize field maps to the backend's page_size name.
func (f TestCaseFilter) Encode() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(f.PageSize))
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Domain != "" {
		q.Set("domain", f.Domain)
	}
	if f.Priority != "" {
		q.Set("priority", f.Priority)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return q
}

// DecodeTestCaseFilter rebuilds a filter from URL query values.
// pageSize is accepted as an alias for page_size.
func DecodeTestCaseFilter(q url.Values) TestCaseFilter {
	f := TestCaseFilter{
		Status:   q.Get("status"),
		Domain:   q.Get("domain"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	if raw := q.Get("page_size"); raw != "" {
		f.PageSize, _ = strconv.Atoi(raw)
	} else {
		f.PageSize, _ = strconv.Atoi(q.Get("pageSize"))
	}
	return f
}

// ListTestCases returns one filtered page of the catalog
func (c *Client) ListTestCases(ctx context.Context, filter TestCaseFilter) (*PageResult[model.TestCase], error) {
	return getPage[model.TestCase](ctx, c, "/test-cases/", filter.Encode())
}

// GetTestCase returns the full structure of one test case
func (c *Client) GetTestCase(ctx context.Context, id string) (*model.TestCase, error) {
	var tc model.TestCase
	if err := c.get(ctx, "/test-cases/"+url.PathEscape(id), nil, &tc); err != nil {
		return nil, err
	}
	return &tc, nil
}

// CreateTestCase creates a catalog entry. Analysis fields in the
// payload are ignored server-side, new test cases start un-analyzed.
func (c *Client) CreateTestCase(ctx context.Context, payload interface{}) (*model.TestCase, error) {
	var tc model.TestCase
	if err := c.post(ctx, "/test-cases/", payload, &tc); err != nil {
		return nil, err
	}
	return &tc, nil
}

// UpdateTestCase applies a partial update
func (c *Client) UpdateTestCase(ctx context.Context, id string, payload interface{}) (*model.TestCase, error) {
	var tc model.TestCase
	if err := c.put(ctx, "/test-cases/"+url.PathEscape(id), payload, &tc); err != nil {
		return nil, err
	}
	return &tc, nil
}

// DeleteTestCase removes one test case
func (c *Client) DeleteTestCase(ctx context.Context, id string) error {
	return c.delete(ctx, "/test-cases/"+url.PathEscape(id), nil)
}

// BatchAction is the body of a batch operation
type BatchAction struct {
	Action string                 `json:"action"`
	IDs    []string               `json:"ids"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// BatchOutcome reports the rows a batch action touched
type BatchOutcome struct {
	Action        string `json:"action"`
	AffectedCount int64  `json:"affected_count"`
}

// BatchTestCases applies a batch delete or status update
func (c *Client) BatchTestCases(ctx context.Context, action BatchAction) (*BatchOutcome, error) {
	var outcome BatchOutcome
	if err := c.post(ctx, "/test-cases/batch", action, &outcome); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// TestCaseStatistics returns the catalog distribution counts
func (c *Client) TestCaseStatistics(ctx context.Context) (map[string]interface{}, error) {
	var stats map[string]interface{}
	if err := c.get(ctx, "/test-cases/statistics/overview", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// TestCaseTagNames returns the distinct tag names in use
func (c *Client) TestCaseTagNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.get(ctx, "/test-cases/tags", nil, &names); err != nil {
		return nil, err
	}
	return names, nil
}
