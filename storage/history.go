// Package storage provides tool-call history abstraction.
//
// Information Hiding:
// - History backend implementation details hidden behind interface
// - Allows swapping between memory and SQLite without API changes

package storage

import (
	"context"
	"sync"
	"time"
)

// CallRecord describes one tools/call invocation.
type CallRecord struct {
	ID        string
	SessionID string
	Tool      string
	Provider  string
	Success   bool
	Error     string
	Duration  time.Duration
	CreatedAt time.Time
}

// CallHistory records tool invocations for later inspection.
type CallHistory interface {
	// Record stores a single invocation.
	Record(ctx context.Context, rec CallRecord) error

	// Recent returns up to limit records for a session, newest first.
	// Returns an empty slice (not nil) when the session has no records.
	Recent(ctx context.Context, sessionID string, limit int) ([]CallRecord, error)
}

// InMemoryHistory implements CallHistory using a slice.
// Data is lost when process terminates. The server itself records only to
// SQLite or not at all; this type is a test double for CallHistory
// consumers that need a history without a database file.
type InMemoryHistory struct {
	mu      sync.RWMutex
	records []CallRecord
}

// NewInMemoryHistory creates a new in-memory history.
func NewInMemoryHistory() *InMemoryHistory {
	return &InMemoryHistory{}
}

// Record appends a record.
func (h *InMemoryHistory) Record(ctx context.Context, rec CallRecord) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, rec)
	return nil
}

// Recent returns the newest records for a session.
func (h *InMemoryHistory) Recent(ctx context.Context, sessionID string, limit int) ([]CallRecord, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	result := []CallRecord{}
	for i := len(h.records) - 1; i >= 0 && len(result) < limit; i-- {
		if h.records[i].SessionID == sessionID {
			result = append(result, h.records[i])
		}
	}
	return result, nil
}

// Verify InMemoryHistory implements CallHistory
var _ CallHistory = (*InMemoryHistory)(nil)
