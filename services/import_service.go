package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/talktrace/talktrace/model"
	"github.com/talktrace/talktrace/utils/cache"
	"gorm.io/gorm"
)

// ErrTaskNotFound is returned when an import task id is unknown
var ErrTaskNotFound = errors.New("import task not found")

// TaskRepository persists import tasks
type TaskRepository interface {
	Save(task *model.ImportTask) error
	FindByID(taskID string) (*model.ImportTask, error)
	List(page, pageSize int) ([]model.ImportTask, int64, error)
	Delete(taskID string) error
}

// CaseWriter is the slice of the test case service the importer needs
type CaseWriter interface {
	CreateImported(tc *model.TestCase) error
	FindBySourceSessions(sessionIDs []string) (map[string]model.TestCase, error)
}

// GormTaskRepository stores import tasks in Postgres
type GormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a task repository over the database
func NewGormTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

func (r *GormTaskRepository) Save(task *model.ImportTask) error {
	return r.db.Save(task).Error
}

func (r *GormTaskRepository) FindByID(taskID string) (*model.ImportTask, error) {
	var task model.ImportTask
	if err := r.db.Where("task_id = ?", taskID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *GormTaskRepository) List(page, pageSize int) ([]model.ImportTask, int64, error) {
	var total int64
	if err := r.db.Model(&model.ImportTask{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tasks []model.ImportTask
	offset := (page - 1) * pageSize
	if err := r.db.Order("created_at DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

func (r *GormTaskRepository) Delete(taskID string) error {
	result := r.db.Where("task_id = ?", taskID).Delete(&model.ImportTask{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// ImportService runs the session-to-test-case import pipeline. Imports
// execute in a background goroutine; callers see progress through
// Redis-backed snapshots with the database as fallback.
type ImportService struct {
	source     SessionSource
	converter  *ConversionService
	cases      CaseWriter
	tasks      TaskRepository
	redisCache *cache.RedisCache
}

// NewImportService creates a new import service
func NewImportService(source SessionSource, converter *ConversionService, cases CaseWriter, tasks TaskRepository, redisCache *cache.RedisCache) *ImportService {
	return &ImportService{
		source:     source,
		converter:  converter,
		cases:      cases,
		tasks:      tasks,
		redisCache: redisCache,
	}
}

// ValidateSessions splits the requested session ids into importable
// sessions and duplicates of already-imported test cases
func (s *ImportService) ValidateSessions(sessionIDs []string) (*model.ImportValidationResult, error) {
	existing, err := s.cases.FindBySourceSessions(sessionIDs)
	if err != nil {
		return nil, err
	}

	result := &model.ImportValidationResult{
		ValidSessions:     []string{},
		DuplicateSessions: []model.DuplicateSessionInfo{},
		TotalCount:        len(sessionIDs),
	}

	for _, id := range sessionIDs {
		tc, dup := existing[id]
		if !dup {
			result.ValidSessions = append(result.ValidSessions, id)
			continue
		}
		result.DuplicateSessions = append(result.DuplicateSessions, model.DuplicateSessionInfo{
			SessionID:            id,
			ExistingTestCaseID:   tc.ID,
			ExistingTestCaseName: tc.Name,
			ImportDate:           tc.CreatedDate.Format(time.RFC3339),
			Owner:                tc.Owner,
		})
	}

	result.DuplicateCount = len(result.DuplicateSessions)
	result.CanImportAll = result.DuplicateCount == 0
	if result.CanImportAll {
		result.Message = fmt.Sprintf("All %d sessions can be imported", result.TotalCount)
	} else {
		result.Message = fmt.Sprintf("%d of %d sessions were already imported", result.DuplicateCount, result.TotalCount)
	}
	return result, nil
}

// previewLimit caps how many sessions the preview summarizes
const previewLimit = 5

// Preview summarizes the first few requested sessions and embeds the
// duplicate validation so the caller can decide what to import
func (s *ImportService) Preview(sessionIDs []string) (*model.ImportPreview, error) {
	validation, err := s.ValidateSessions(sessionIDs)
	if err != nil {
		return nil, err
	}

	preview := &model.ImportPreview{
		TotalCount:       len(sessionIDs),
		SessionIDs:       sessionIDs,
		DuplicateInfo:    validation.DuplicateSessions,
		ValidationResult: validation,
	}

	limit := len(sessionIDs)
	if limit > previewLimit {
		limit = previewLimit
	}

	for _, id := range sessionIDs[:limit] {
		details, err := s.source.SessionDetails(id)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		if len(details) == 0 {
			continue
		}

		first := details[0]
		last := details[len(details)-1]
		preview.PreviewData = append(preview.PreviewData, model.SessionPreview{
			SessionID:     id,
			MessageCount:  len(details),
			FirstMessage:  truncate(first.UserQuery, 120),
			LastMessage:   truncate(last.UserQuery, 120),
			HasUserRating: last.UserRating > 0,
		})
	}

	preview.PreviewCount = len(preview.PreviewData)
	preview.Message = fmt.Sprintf("Previewing %d of %d sessions", preview.PreviewCount, preview.TotalCount)
	return preview, nil
}

// ExecuteRequest starts an import. SkipDuplicates makes the worker
// skip sessions that already back a test case; when unset every
// submitted session is imported, duplicates included.
type ExecuteRequest struct {
	SessionIDs     []string         `json:"session_ids" validate:"required,min=1"`
	Config         ConversionConfig `json:"config"`
	SkipDuplicates bool             `json:"skip_duplicates"`
}

// Execute creates the import task, persists it in pending state and
// launches the background worker. It returns immediately with the task
// id the caller polls for progress.
func (s *ImportService) Execute(req ExecuteRequest) (*model.ImportTask, error) {
	if len(req.SessionIDs) == 0 {
		return nil, fmt.Errorf("no sessions selected for import")
	}
	if req.Config.DefaultOwner == "" {
		return nil, fmt.Errorf("import config requires an owner")
	}
	cfg := req.Config.normalize()

	now := time.Now().UTC()
	task := &model.ImportTask{
		TaskID:     fmt.Sprintf("IMPORT-%d", now.UnixNano()),
		SessionIDs: model.StringList(req.SessionIDs),
		Status:     model.TaskStatusPending,
		Total:      len(req.SessionIDs),
		CreatedAt:  now,
		Config: model.JSONMap{
			"default_owner":      cfg.DefaultOwner,
			"default_priority":   string(cfg.DefaultPriority),
			"default_difficulty": string(cfg.DefaultDifficulty),
			"auto_generate_tags": cfg.AutoGenerateTags,
			"include_analysis":   cfg.IncludeAnalysis,
			"skip_duplicates":    req.SkipDuplicates,
		},
	}

	if err := s.tasks.Save(task); err != nil {
		return nil, err
	}
	s.publishState(task)

	go s.run(task.TaskID, req.SessionIDs, cfg, req.SkipDuplicates)

	return task, nil
}

// run is the background import worker. It owns the task row for the
// duration of the import.
func (s *ImportService) run(taskID string, sessionIDs []string, cfg ConversionConfig, skipDuplicates bool) {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		log.Printf("import worker: task %s vanished: %v", taskID, err)
		return
	}

	start := time.Now().UTC()
	task.Status = model.TaskStatusRunning
	task.StartTime = &start
	if err := s.tasks.Save(task); err != nil {
		log.Printf("import worker: failed to mark %s running: %v", taskID, err)
		return
	}
	s.publishState(task)

	for _, sessionID := range sessionIDs {
		if s.importOne(sessionID, cfg, task, skipDuplicates) {
			task.Processed++
		}
		if err := s.tasks.Save(task); err != nil {
			log.Printf("import worker: failed to persist progress for %s: %v", taskID, err)
		}
		s.publishState(task)
	}

	end := time.Now().UTC()
	task.EndTime = &end
	if task.Failed == task.Total && task.Total > 0 {
		task.Status = model.TaskStatusFailed
		task.Message = fmt.Sprintf("Import failed: all %d sessions failed", task.Total)
	} else {
		task.Status = model.TaskStatusCompleted
		task.Message = fmt.Sprintf("Imported %d of %d sessions (%d skipped, %d failed)",
			task.Processed, task.Total, task.Skipped, task.Failed)
	}

	if err := s.tasks.Save(task); err != nil {
		log.Printf("import worker: failed to finalize %s: %v", taskID, err)
	}
	s.publishState(task)
}

// importOne converts one session. It reports whether the session was
// imported; skips and failures are counted on the task directly.
// Duplicate detection only runs when the caller asked for it, so a
// plain execute can import the same session twice.
func (s *ImportService) importOne(sessionID string, cfg ConversionConfig, task *model.ImportTask, skipDuplicates bool) bool {
	if skipDuplicates {
		existing, err := s.cases.FindBySourceSessions([]string{sessionID})
		if err == nil {
			if _, dup := existing[sessionID]; dup {
				task.Skipped++
				return false
			}
		}
	}

	details, err := s.source.SessionDetails(sessionID)
	if err != nil {
		task.Failed++
		return false
	}

	tc, err := s.converter.ConvertSession(details, cfg)
	if err != nil {
		task.Failed++
		return false
	}
	tc.SourceSession = sessionID

	if err := s.cases.CreateImported(tc); err != nil {
		task.Failed++
		return false
	}
	return true
}

// publishState mirrors the task state into Redis so progress polling
// does not hit the database on every tick
func (s *ImportService) publishState(task *model.ImportTask) {
	if s.redisCache == nil {
		return
	}

	ttl := model.TaskStateTTLActive
	if task.Status.IsTerminal() {
		ttl = model.TaskStateTTLTerminal
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := fmt.Sprintf(model.RedisKeyTaskState, task.TaskID)
	snapshot := task.Snapshot()
	if err := s.redisCache.SetJSON(ctx, key, snapshot, ttl); err != nil {
		log.Printf("import worker: failed to publish state for %s: %v", task.TaskID, err)
	}
}

// Progress returns the current task snapshot, preferring the Redis
// live state over the database row
func (s *ImportService) Progress(ctx context.Context, taskID string) (*model.ImportProgress, error) {
	if s.redisCache != nil {
		var snapshot model.ImportProgress
		key := fmt.Sprintf(model.RedisKeyTaskState, taskID)
		if err := s.redisCache.GetJSON(ctx, key, &snapshot); err == nil {
			return &snapshot, nil
		}
	}

	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return nil, err
	}
	snapshot := task.Snapshot()
	return &snapshot, nil
}

// Tasks lists import tasks newest first
func (s *ImportService) Tasks(page, pageSize int) ([]model.ImportTask, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return s.tasks.List(page, pageSize)
}

// DeleteTask removes a finished task record. Running tasks cannot be
// deleted.
func (s *ImportService) DeleteTask(ctx context.Context, taskID string) error {
	task, err := s.tasks.FindByID(taskID)
	if err != nil {
		return err
	}
	if !task.Status.IsTerminal() {
		return fmt.Errorf("task %s is still %s", taskID, task.Status)
	}

	if err := s.tasks.Delete(taskID); err != nil {
		return err
	}
	if s.redisCache != nil {
		key := fmt.Sprintf(model.RedisKeyTaskState, taskID)
		if err := s.redisCache.Delete(ctx, key); err != nil {
			log.Printf("import service: failed to drop redis state for %s: %v", taskID, err)
		}
	}
	return nil
}

// truncate shortens s to max runes, never cutting inside a multi-byte
// character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
