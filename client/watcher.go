package client

import (
	"context"
	"fmt"
	"time"

	"github.com/talktrace/talktrace/model"
)

const (
	// pollInterval is the fixed delay between progress polls
	pollInterval = 2 * time.Second

	// maxConsecutiveFailures is how many transient poll failures the
	// watcher tolerates before giving up with an explicit error
	maxConsecutiveFailures = 5
)

// Watcher observes one import job until it reaches a terminal status.
// It is bound to a context: cancel the context and the watcher stops.
// Each snapshot received overwrites the previous one, the backend is
// the single source of truth for job state.
type Watcher struct {
	client   *Client
	taskID   string
	interval time.Duration

	// OnUpdate, when set, receives every snapshot including the
	// terminal one. It is called from the watching goroutine.
	OnUpdate func(model.ImportProgress)
}

// NewWatcher creates a watcher for the given task
func (c *Client) NewWatcher(taskID string) *Watcher {
	return &Watcher{
		client:   c,
		taskID:   taskID,
		interval: pollInterval,
	}
}

// Wait polls the job until it is completed or failed and returns the
// terminal snapshot. The first poll is issued immediately. A transient
// poll failure does not stop the watch; only maxConsecutiveFailures
// failures in a row do, and that surfaces as an error instead of a
// silent stop. Exactly one terminal snapshot is returned per call.
func (w *Watcher) Wait(ctx context.Context) (*model.ImportProgress, error) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	failures := 0
	for {
		progress, err := w.client.Progress(ctx, w.taskID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failures++
			if failures >= maxConsecutiveFailures {
				return nil, fmt.Errorf("watch task %s: %d consecutive poll failures, last: %w", w.taskID, failures, err)
			}
		} else {
			failures = 0
			if w.OnUpdate != nil {
				w.OnUpdate(*progress)
			}
			if progress.Status.IsTerminal() {
				return progress, nil
			}
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Watch runs Wait on its own goroutine and delivers the terminal
// snapshot, or the error, on the returned channel. The channel is
// buffered and receives exactly one value.
func (w *Watcher) Watch(ctx context.Context) <-chan WatchResult {
	done := make(chan WatchResult, 1)
	go func() {
		progress, err := w.Wait(ctx)
		done <- WatchResult{Progress: progress, Err: err}
	}()
	return done
}

// WatchResult is the single terminal outcome of a watch
type WatchResult struct {
	Progress *model.ImportProgress
	Err      error
}
