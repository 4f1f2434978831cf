// Package state holds the tag record most recently fetched by the application.
package state

import (
	"sync"
	"time"

	"github.com/booru-prompt/booru-prompt/internal/tags"
)

// Snapshot is an immutable copy of the current record and where it came from.
type Snapshot struct {
	PostID    string
	Record    tags.Record
	FetchedAt time.Time
}

// RecordState is the single current-record slot.
//
// It starts empty, becomes populated on the first Set and is replaced
// wholesale by every later Set. It is never cleared. Concurrent Sets are
// ordered by the mutex, so the last fetch to resolve wins.
// Thread-safe for concurrent access.
type RecordState struct {
	mu      sync.RWMutex
	current *Snapshot
	version uint64
}

// NewRecordState returns an empty slot.
func NewRecordState() *RecordState {
	return &RecordState{}
}

// Set replaces the current record.
func (s *RecordState) Set(postID string, rec tags.Record) Snapshot {
	snap := Snapshot{PostID: postID, Record: rec, FetchedAt: time.Now()}

	s.mu.Lock()
	s.current = &snap
	s.version++
	s.mu.Unlock()

	return snap
}

// Current returns a copy of the current record; ok is false until the first Set.
func (s *RecordState) Current() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return Snapshot{}, false
	}
	return *s.current, true
}

// Version counts successful Sets.
func (s *RecordState) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
