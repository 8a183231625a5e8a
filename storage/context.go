// Package storage provides the session's conversation context and tool-call history.
//
// Information Hiding:
// - Map/slice storage structure hidden from users
// - Thread-safe access via RWMutex hidden behind methods
// - Snapshots are deep copies; callers never alias internal state

package storage

import (
	"sync"
)

// ContextSnapshot is a point-in-time copy of the conversation context.
type ContextSnapshot struct {
	Files    map[string]string `json:"files"`
	Notes    []string          `json:"notes"`
	Metadata map[string]string `json:"metadata"`
}

// ContextStore holds files, notes and metadata accumulated by tool calls.
// It lives for the whole process and is never persisted.
// Readers may run concurrently; each mutation holds the write lock for its
// full duration, so no reader observes a partial update.
type ContextStore struct {
	mu       sync.RWMutex
	files    map[string]string
	notes    []string
	metadata map[string]string
}

// NewContextStore creates an empty context store.
func NewContextStore() *ContextStore {
	return &ContextStore{
		files:    make(map[string]string),
		notes:    []string{},
		metadata: make(map[string]string),
	}
}

// AddFile stores file content by path. A later call for the same path wins.
func (s *ContextStore) AddFile(path, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = content
}

// AddNote appends a note, preserving insertion order.
func (s *ContextStore) AddNote(note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, note)
}

// SetMetadata upserts a metadata key.
func (s *ContextStore) SetMetadata(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata[key] = value
}

// Clear empties files, notes and metadata in one step.
func (s *ContextStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string]string)
	s.notes = []string{}
	s.metadata = make(map[string]string)
}

// Snapshot returns a copy of all three collections.
func (s *ContextStore) Snapshot() ContextSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make(map[string]string, len(s.files))
	for k, v := range s.files {
		files[k] = v
	}
	notes := make([]string, len(s.notes))
	copy(notes, s.notes)
	metadata := make(map[string]string, len(s.metadata))
	for k, v := range s.metadata {
		metadata[k] = v
	}

	return ContextSnapshot{Files: files, Notes: notes, Metadata: metadata}
}
