package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/talktrace/talktrace/model"
)

// memoryTaskRepository keeps import tasks in a map for tests
type memoryTaskRepository struct {
	mu    sync.Mutex
	tasks map[string]model.ImportTask
}

func newMemoryTaskRepository() *memoryTaskRepository {
	return &memoryTaskRepository{tasks: map[string]model.ImportTask{}}
}

func (r *memoryTaskRepository) Save(task *model.ImportTask) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.TaskID] = *task
	return nil
}

func (r *memoryTaskRepository) FindByID(taskID string) (*model.ImportTask, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[taskID]
	if !ok {
		return nil, ErrTaskNotFound
	}
	return &task, nil
}

func (r *memoryTaskRepository) List(page, pageSize int) ([]model.ImportTask, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.ImportTask, 0, len(r.tasks))
	for _, task := range r.tasks {
		out = append(out, task)
	}
	return out, int64(len(out)), nil
}

func (r *memoryTaskRepository) Delete(taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[taskID]; !ok {
		return ErrTaskNotFound
	}
	delete(r.tasks, taskID)
	return nil
}

// memoryCaseWriter records created cases and serves duplicate lookups
type memoryCaseWriter struct {
	mu       sync.Mutex
	created  []model.TestCase
	existing map[string]model.TestCase
}

func newMemoryCaseWriter() *memoryCaseWriter {
	return &memoryCaseWriter{existing: map[string]model.TestCase{}}
}

func (w *memoryCaseWriter) CreateImported(tc *model.TestCase) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.created = append(w.created, *tc)
	w.existing[tc.SourceSession] = *tc
	return nil
}

func (w *memoryCaseWriter) FindBySourceSessions(sessionIDs []string) (map[string]model.TestCase, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	found := map[string]model.TestCase{}
	for _, id := range sessionIDs {
		if tc, ok := w.existing[id]; ok {
			found[id] = tc
		}
	}
	return found, nil
}

func newTestImportService(t *testing.T) (*ImportService, *memoryTaskRepository, *memoryCaseWriter) {
	t.Helper()
	source := historyFixture()
	repo := newMemoryTaskRepository()
	writer := newMemoryCaseWriter()
	svc := NewImportService(source, NewConversionService(), writer, repo, nil)
	return svc, repo, writer
}

// waitForTerminal polls the repository until the task finishes
func waitForTerminal(t *testing.T, svc *ImportService, taskID string) *model.ImportProgress {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		progress, err := svc.Progress(context.Background(), taskID)
		if err == nil && progress.Status.IsTerminal() {
			return progress
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("task %s did not reach a terminal status", taskID)
	return nil
}

func TestValidateSessionsSplitsDuplicates(t *testing.T) {
	svc, _, writer := newTestImportService(t)
	writer.existing["s1"] = model.TestCase{
		ID:          "TC-EXISTING",
		Name:        "already imported",
		Owner:       "qa@company.com",
		CreatedDate: time.Now().UTC(),
	}

	result, err := svc.ValidateSessions([]string{"s1", "s2"})
	if err != nil {
		t.Fatalf("ValidateSessions returned error: %v", err)
	}

	if result.TotalCount != 2 || result.DuplicateCount != 1 {
		t.Errorf("counts = %d total, %d duplicate; want 2, 1", result.TotalCount, result.DuplicateCount)
	}
	if result.CanImportAll {
		t.Error("CanImportAll must be false when duplicates exist")
	}
	if len(result.ValidSessions) != 1 || result.ValidSessions[0] != "s2" {
		t.Errorf("ValidSessions = %v, want [s2]", result.ValidSessions)
	}
	if result.DuplicateSessions[0].ExistingTestCaseID != "TC-EXISTING" {
		t.Errorf("duplicate descriptor = %+v", result.DuplicateSessions[0])
	}
}

func TestPreviewSummarizesSessions(t *testing.T) {
	svc, _, _ := newTestImportService(t)

	preview, err := svc.Preview([]string{"s1", "s2", "missing"})
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}

	if preview.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", preview.TotalCount)
	}
	// The unknown session is skipped, not fatal
	if preview.PreviewCount != 2 {
		t.Errorf("PreviewCount = %d, want 2", preview.PreviewCount)
	}
	if preview.ValidationResult == nil {
		t.Fatal("preview must embed the validation result")
	}
	for _, p := range preview.PreviewData {
		if p.SessionID == "s1" && !p.HasUserRating {
			t.Error("s1 is rated, HasUserRating must be true")
		}
	}
}

func TestExecuteRequiresOwner(t *testing.T) {
	svc, _, _ := newTestImportService(t)
	if _, err := svc.Execute(ExecuteRequest{SessionIDs: []string{"s1"}}); err == nil {
		t.Fatal("expected error when owner is missing")
	}
}

func TestExecuteImportsSessions(t *testing.T) {
	svc, _, writer := newTestImportService(t)

	task, err := svc.Execute(ExecuteRequest{
		SessionIDs: []string{"s1", "s2"},
		Config:     ConversionConfig{DefaultOwner: "qa@company.com"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if task.Status != model.TaskStatusPending {
		t.Errorf("initial status = %q, want pending", task.Status)
	}

	progress := waitForTerminal(t, svc, task.TaskID)
	if progress.Status != model.TaskStatusCompleted {
		t.Fatalf("final status = %q, want completed (%s)", progress.Status, progress.Message)
	}
	if progress.Processed != 2 || progress.Failed != 0 || progress.Skipped != 0 {
		t.Errorf("progress = %+v, want 2 processed", progress)
	}

	writer.mu.Lock()
	defer writer.mu.Unlock()
	if len(writer.created) != 2 {
		t.Fatalf("created %d test cases, want 2", len(writer.created))
	}
	for _, tc := range writer.created {
		if tc.Owner != "qa@company.com" {
			t.Errorf("imported case owner = %q", tc.Owner)
		}
	}
}

func TestExecuteSkipsDuplicatesWhenAsked(t *testing.T) {
	svc, _, writer := newTestImportService(t)
	writer.existing["s1"] = model.TestCase{ID: "TC-EXISTING", SourceSession: "s1"}

	task, err := svc.Execute(ExecuteRequest{
		SessionIDs:     []string{"s1", "s2"},
		Config:         ConversionConfig{DefaultOwner: "qa@company.com"},
		SkipDuplicates: true,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	progress := waitForTerminal(t, svc, task.TaskID)
	if progress.Processed != 1 || progress.Skipped != 1 {
		t.Errorf("progress = %+v, want 1 processed and 1 skipped", progress)
	}
}

func TestExecuteReimportsDuplicatesByDefault(t *testing.T) {
	svc, _, writer := newTestImportService(t)
	writer.existing["s1"] = model.TestCase{ID: "TC-EXISTING", SourceSession: "s1"}

	task, err := svc.Execute(ExecuteRequest{
		SessionIDs: []string{"s1", "s2"},
		Config:     ConversionConfig{DefaultOwner: "qa@company.com"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	progress := waitForTerminal(t, svc, task.TaskID)
	if progress.Processed != 2 || progress.Skipped != 0 {
		t.Errorf("progress = %+v, want 2 processed and 0 skipped", progress)
	}

	writer.mu.Lock()
	defer writer.mu.Unlock()
	if len(writer.created) != 2 {
		t.Fatalf("created %d test cases, want 2 including the re-imported session", len(writer.created))
	}
}

func TestTruncateKeepsRuneBoundaries(t *testing.T) {
	long := strings.Repeat("数据库索引与查询优化", 20)
	got := truncate(long, 120)
	if !utf8.ValidString(got) {
		t.Fatalf("truncate produced invalid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("truncated string must end with an ellipsis, got %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 120 {
		t.Errorf("rune count = %d, want 120", n)
	}

	short := "短い質問"
	if truncate(short, 120) != short {
		t.Error("strings within the limit must pass through unchanged")
	}
}

func TestExecuteFailsWhenAllSessionsUnknown(t *testing.T) {
	svc, _, _ := newTestImportService(t)

	task, err := svc.Execute(ExecuteRequest{
		SessionIDs: []string{"ghost1", "ghost2"},
		Config:     ConversionConfig{DefaultOwner: "qa@company.com"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	progress := waitForTerminal(t, svc, task.TaskID)
	if progress.Status != model.TaskStatusFailed {
		t.Errorf("final status = %q, want failed when every session fails", progress.Status)
	}
	if progress.Failed != 2 {
		t.Errorf("Failed = %d, want 2", progress.Failed)
	}
}

func TestProgressUnknownTask(t *testing.T) {
	svc, _, _ := newTestImportService(t)
	if _, err := svc.Progress(context.Background(), "nope"); err != ErrTaskNotFound {
		t.Fatalf("err = %v, want ErrTaskNotFound", err)
	}
}

func TestDeleteTask(t *testing.T) {
	svc, repo, _ := newTestImportService(t)

	task, err := svc.Execute(ExecuteRequest{
		SessionIDs: []string{"s1"},
		Config:     ConversionConfig{DefaultOwner: "qa@company.com"},
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	waitForTerminal(t, svc, task.TaskID)

	if err := svc.DeleteTask(context.Background(), task.TaskID); err != nil {
		t.Fatalf("DeleteTask returned error: %v", err)
	}
	if _, err := repo.FindByID(task.TaskID); err != ErrTaskNotFound {
		t.Errorf("task still present after delete")
	}
}
