package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/talktrace/talktrace/model"
)

// ImportConfig carries the per-import defaults sent to execute.
// SkipDuplicates travels next to the config in the request body; when
// unset the backend imports every submitted session, duplicates
// included.
type ImportConfig struct {
	DefaultOwner      string `json:"default_owner"`
	DefaultPriority   string `json:"default_priority,omitempty"`
	DefaultDifficulty string `json:"default_difficulty,omitempty"`
	AutoGenerateTags  bool   `json:"auto_generate_tags,omitempty"`
	IncludeAnalysis   bool   `json:"include_analysis,omitempty"`
	SkipDuplicates    bool   `json:"-"`
}

// ImportTicket is the acknowledgment returned by ExecuteImport
type ImportTicket struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
	Total  int    `json:"total"`
}

type sessionSelection struct {
	SessionIDs []string `json:"session_ids"`
}

// ValidateSessions asks the backend which of the given sessions were
// already imported. The backend alone decides duplication.
func (c *Client) ValidateSessions(ctx context.Context, sessionIDs []string) (*model.ImportValidationResult, error) {
	var result model.ImportValidationResult
	if err := c.post(ctx, "/import/validate-sessions", sessionSelection{SessionIDs: sessionIDs}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// PreviewImport summarizes the selected sessions before import
func (c *Client) PreviewImport(ctx context.Context, sessionIDs []string) (*model.ImportPreview, error) {
	var preview model.ImportPreview
	if err := c.post(ctx, "/import/preview", sessionSelection{SessionIDs: sessionIDs}, &preview); err != nil {
		return nil, err
	}
	return &preview, nil
}

// ExecuteImport starts an import job and returns its ticket. The job
// runs on the backend; observe it with a Watcher or Progress calls.
func (c *Client) ExecuteImport(ctx context.Context, sessionIDs []string, cfg ImportConfig) (*ImportTicket, error) {
	body := struct {
		SessionIDs     []string     `json:"session_ids"`
		Config         ImportConfig `json:"config"`
		SkipDuplicates bool         `json:"skip_duplicates"`
	}{SessionIDs: sessionIDs, Config: cfg, SkipDuplicates: cfg.SkipDuplicates}

	var ticket ImportTicket
	if err := c.post(ctx, "/import/execute", body, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Progress fetches one snapshot of an import job
func (c *Client) Progress(ctx context.Context, taskID string) (*model.ImportProgress, error) {
	var progress model.ImportProgress
	if err := c.get(ctx, "/import/progress/"+url.PathEscape(taskID), nil, &progress); err != nil {
		return nil, err
	}
	return &progress, nil
}

// ImportTasks lists prior import jobs, newest first
func (c *Client) ImportTasks(ctx context.Context, page, pageSize int) (*PageResult[model.ImportTask], error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	return getPage[model.ImportTask](ctx, c, "/import/tasks", q)
}

// DeleteImportTask removes a finished import job record
func (c *Client) DeleteImportTask(ctx context.Context, taskID string) error {
	return c.delete(ctx, "/import/tasks/"+url.PathEscape(taskID), nil)
}

// SessionIDsForImport picks the session id set to submit. With
// skipDuplicates set only the validated-new sessions go through,
// otherwise the full original selection is resubmitted, permitting
// re-import.
func SessionIDsForImport(validation *model.ImportValidationResult, original []string, skipDuplicates bool) []string {
	if validation == nil || !skipDuplicates {
		return original
	}
	return validation.ValidSessions
}
