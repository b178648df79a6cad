// Package client is a Go client for the talktrace REST API. It hides
// the response envelope and the payload-shape variants older backend
// builds produce, so callers only ever see normalized types.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultBaseURL targets a local backend
	DefaultBaseURL = "http://localhost:8001"

	// apiPrefix is the versioned path every endpoint lives under
	apiPrefix = "/api/v1"

	defaultTimeout = 30 * time.Second
)

// APIError is the error detail carried in a failed envelope
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// envelope is the wire shape of every response
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error,omitempty"`
}

// Client talks to the talktrace backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout overrides the default request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// New creates a client for the given base URL. An empty base URL
// targets a local backend.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one request and decodes the envelope. A failed envelope
// becomes an *APIError; transport failures pass through untouched.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	endpoint := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response envelope (HTTP %d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		if env.Error != nil {
			return env.Error
		}
		return &APIError{
			Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: "request failed without error detail",
		}
	}

	if out == nil {
		return nil
	}
	return decodePayload(env.Data, out)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

// decodePayload normalizes the payload-shape variants seen in the
// wild before decoding into out. Older builds double-wrap the data
// field, so {"data": {...}} and the bare payload are both accepted.
func decodePayload(raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	if err := json.Unmarshal(raw, out); err == nil {
		return nil
	}

	// Double-wrapped variant: the real payload sits one level down
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		return json.Unmarshal(wrapped.Data, out)
	}

	return json.Unmarshal(raw, out)
}

// PageResult is the pagination wrapper list endpoints return
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// decodePage normalizes a list payload into a PageResult. Accepted
// variants: a page object, a double-wrapped page object and a raw
// array with no pagination metadata.
func decodePage[T any](raw json.RawMessage) (*PageResult[T], error) {
	if len(raw) == 0 || string(raw) == "null" {
		return &PageResult[T]{Items: []T{}}, nil
	}

	var page PageResult[T]
	if err := json.Unmarshal(raw, &page); err == nil && page.Items != nil {
		return &page, nil
	}

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		if err := json.Unmarshal(wrapped.Data, &page); err == nil && page.Items != nil {
			return &page, nil
		}
	}

	var items []T
	if err := json.Unmarshal(raw, &items); err == nil {
		return &PageResult[T]{
			Items:    items,
			Total:    int64(len(items)),
			Page:     1,
			PageSize: len(items),
		}, nil
	}

	return nil, fmt.Errorf("unrecognized list payload shape")
}

// getPage issues a GET and decodes the response as a page
func getPage[T any](ctx context.Context, c *Client, path string, query url.Values) (*PageResult[T], error) {
	var raw json.RawMessage
	if err := c.get(ctx, path, query, &raw); err != nil {
		return nil, err
	}
	return decodePage[T](raw)
}
