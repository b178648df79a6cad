package client

import (
	"context"
	"net/url"
	"strconv"
)

// AnalyticsOverview returns the dashboard aggregate for the last
// days window. Zero days uses the backend default.
func (c *Client) AnalyticsOverview(ctx context.Context, days int) (map[string]interface{}, error) {
	q := url.Values{}
	if days > 0 {
		q.Set("days", strconv.Itoa(days))
	}

	var overview map[string]interface{}
	if err := c.get(ctx, "/analytics/overview", q, &overview); err != nil {
		return nil, err
	}
	return overview, nil
}

// AnalyticsHealthy reports whether the backend data sources are up
func (c *Client) AnalyticsHealthy(ctx context.Context) bool {
	return c.get(ctx, "/analytics/health", nil, nil) == nil
}
