package services

import (
	"fmt"
	"sort"
	"sync"

	"github.com/talktrace/talktrace/model"
)

// ErrSessionNotFound is returned when a session id is unknown to the source
var ErrSessionNotFound = fmt.Errorf("session not found")

// SessionSource provides read access to the historical conversation
// store. The backend owning the raw logs is external; this interface
// keeps the rest of the system independent of where they live.
type SessionSource interface {
	// All returns every session record the source knows about
	All() ([]model.SessionRecord, error)
	// SessionDetails returns the per-turn detail rows for one session
	SessionDetails(sessionID string) ([]model.SessionDetail, error)
	// Ping reports whether the source is reachable
	Ping() error
}

// MemorySessionSource serves session records from memory. It backs the
// demo deployment and acts as the fallback when no warehouse
// connection is configured.
type MemorySessionSource struct {
	mu      sync.RWMutex
	records []model.SessionRecord
}

// NewMemorySessionSource creates a source pre-loaded with the given records
func NewMemorySessionSource(records []model.SessionRecord) *MemorySessionSource {
	return &MemorySessionSource{records: records}
}

// NewDemoSessionSource creates a source loaded with the demo dataset
func NewDemoSessionSource() *MemorySessionSource {
	records := append(DemoHistoryData(), GenerateHistoryData(15)...)
	return NewMemorySessionSource(records)
}

// All returns every session record, newest first
func (m *MemorySessionSource) All() ([]model.SessionRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.SessionRecord, len(m.records))
	copy(out, m.records)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// SessionDetails returns the detail rows for one session
func (m *MemorySessionSource) SessionDetails(sessionID string) ([]model.SessionDetail, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var details []model.SessionDetail
	for _, rec := range m.records {
		if rec.SessionID != sessionID {
			continue
		}
		details = append(details, model.SessionDetail{
			SessionID:       rec.SessionID,
			ModelID:         rec.ModelID,
			UserQuery:       rec.UserQuery,
			AIResponse:      rec.AIResponse,
			UserRating:      rec.UserRating,
			CreatedAt:       rec.CreatedAt,
			RetrievalChunks: rec.RetrievalChunks,
			TestConfig:      rec.TestConfig,
		})
	}

	if len(details) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}

	sort.Slice(details, func(i, j int) bool {
		return details[i].CreatedAt.Before(details[j].CreatedAt)
	})
	return details, nil
}

// Ping always succeeds for the in-memory source
func (m *MemorySessionSource) Ping() error {
	return nil
}
