package model

import "time"

// ImportTaskStatus represents the lifecycle status of an import task
type ImportTaskStatus string

const (
	TaskStatusPending   ImportTaskStatus = "pending"
	TaskStatusRunning   ImportTaskStatus = "running"
	TaskStatusCompleted ImportTaskStatus = "completed"
	TaskStatusFailed    ImportTaskStatus = "failed"
)

// IsTerminal reports whether the status ends the task lifecycle
func (s ImportTaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// ImportTask is an asynchronous backend task converting sessions into
// test cases. Only the import worker mutates a task; clients observe
// snapshots through the progress endpoint.
type ImportTask struct {
	TaskID     string           `gorm:"primaryKey;type:varchar(64)" json:"task_id"`
	SessionIDs StringList       `gorm:"type:jsonb" json:"session_ids"`
	Status     ImportTaskStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	Total      int              `gorm:"default:0" json:"total"`
	Processed  int              `gorm:"default:0" json:"processed"`
	Failed     int              `gorm:"default:0" json:"failed"`
	Skipped    int              `gorm:"default:0" json:"skipped"`
	Message    string           `gorm:"type:text" json:"message,omitempty"`
	StartTime  *time.Time       `json:"start_time,omitempty"`
	EndTime    *time.Time       `json:"end_time,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
	Config     JSONMap          `gorm:"type:jsonb;default:'{}'" json:"config,omitempty"`
}

// TableName specifies the table name for ImportTask
func (ImportTask) TableName() string {
	return "import_tasks"
}

// ImportProgress is the snapshot returned by the progress endpoint
type ImportProgress struct {
	TaskID    string           `json:"task_id"`
	Status    ImportTaskStatus `json:"status"`
	Total     int              `json:"total"`
	Processed int              `json:"processed"`
	Failed    int              `json:"failed"`
	Skipped   int              `json:"skipped"`
	Message   string           `json:"message,omitempty"`
	StartTime *time.Time       `json:"start_time,omitempty"`
	EndTime   *time.Time       `json:"end_time,omitempty"`
}

// Snapshot builds the progress view of a task
func (t *ImportTask) Snapshot() ImportProgress {
	return ImportProgress{
		TaskID:    t.TaskID,
		Status:    t.Status,
		Total:     t.Total,
		Processed: t.Processed,
		Failed:    t.Failed,
		Skipped:   t.Skipped,
		Message:   t.Message,
		StartTime: t.StartTime,
		EndTime:   t.EndTime,
	}
}

// DuplicateSessionInfo describes a session already imported into the
// test case catalog, matched by originating session id
type DuplicateSessionInfo struct {
	SessionID            string `json:"session_id"`
	ExistingTestCaseID   string `json:"existing_test_case_id"`
	ExistingTestCaseName string `json:"existing_test_case_name"`
	ImportDate           string `json:"import_date"`
	Owner                string `json:"owner"`
}

// ImportValidationResult separates genuinely new sessions from ones
// matching an already-imported test case
type ImportValidationResult struct {
	ValidSessions     []string               `json:"valid_sessions"`
	DuplicateSessions []DuplicateSessionInfo `json:"duplicate_sessions"`
	CanImportAll      bool                   `json:"can_import_all"`
	TotalCount        int                    `json:"total_count"`
	DuplicateCount    int                    `json:"duplicate_count"`
	Message           string                 `json:"message"`
}

// SessionPreview summarizes one session before import
type SessionPreview struct {
	SessionID     string `json:"session_id"`
	MessageCount  int    `json:"message_count"`
	FirstMessage  string `json:"first_message"`
	LastMessage   string `json:"last_message"`
	HasUserRating bool   `json:"has_user_rating"`
}

// ImportPreview is the preview + validation response shown before an
// import is executed
type ImportPreview struct {
	TotalCount       int                     `json:"total_count"`
	PreviewCount     int                     `json:"preview_count"`
	SessionIDs       []string                `json:"session_ids"`
	Message          string                  `json:"message"`
	PreviewData      []SessionPreview        `json:"preview_data,omitempty"`
	DuplicateInfo    []DuplicateSessionInfo  `json:"duplicate_sessions,omitempty"`
	ValidationResult *ImportValidationResult `json:"validation_result,omitempty"`
}

// Redis key patterns for live import task state
const (
	// RedisKeyTaskState stores the full task state as JSON
	// Usage: fmt.Sprintf(RedisKeyTaskState, taskID)
	RedisKeyTaskState = "import:task:%s"
)

// TTLs for live task state in Redis
const (
	TaskStateTTLActive   = 24 * time.Hour
	TaskStateTTLTerminal = time.Hour
)
