package cron

import (
	"fmt"
	"time"

	"github.com/talktrace/talktrace/model"
)

// staleImportAge is how long a task may stay in running state before
// it is assumed dead. Import workers do not survive a process restart.
const staleImportAge = time.Hour

// importRetention is how long finished import task rows are kept
const importRetention = 30 * 24 * time.Hour

// trashRetention is how long soft-deleted test cases are kept before
// being removed for good
const trashRetention = 7 * 24 * time.Hour

// ReapStaleImportTasks fails import tasks stuck in running state. A
// task only stays running that long when its worker goroutine died
// with the process.
func (m *CronManager) ReapStaleImportTasks() {
	jobName := "reap_stale_imports"
	cutoff := time.Now().Add(-staleImportAge)

	result := m.db.Model(&model.ImportTask{}).
		Where("status = ? AND start_time < ?", model.TaskStatusRunning, cutoff).
		Updates(map[string]interface{}{
			"status":   model.TaskStatusFailed,
			"message":  "Import aborted: worker did not survive a restart",
			"end_time": time.Now().UTC(),
		})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to reap stale tasks: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Reaped %d stale import tasks", result.RowsAffected))
}

// PurgeOldImportTasks deletes terminal import task rows past retention
func (m *CronManager) PurgeOldImportTasks() {
	jobName := "purge_old_imports"
	cutoff := time.Now().Add(-importRetention)

	result := m.db.
		Where("status IN ? AND created_at < ?", []model.ImportTaskStatus{
			model.TaskStatusCompleted,
			model.TaskStatusFailed,
		}, cutoff).
		Delete(&model.ImportTask{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge import tasks: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Purged %d old import tasks", result.RowsAffected))
}

// PurgeDeletedTestCases permanently removes test cases soft-deleted
// more than the retention window ago
func (m *CronManager) PurgeDeletedTestCases() {
	jobName := "purge_deleted_test_cases"
	cutoff := time.Now().Add(-trashRetention)

	result := m.db.Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&model.TestCase{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge test cases: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Purged %d soft-deleted test cases", result.RowsAffected))
}
