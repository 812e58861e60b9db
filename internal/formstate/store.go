// Package formstate keeps the in-progress content of each open form between
// requests, keyed by the form session id.
package formstate

import (
	"context"
	"sync"
	"time"

	"employment-application/internal/models"
)

// Store loads and saves the current fields of a form session.
// Loading an unknown or expired session yields the empty form.
type Store interface {
	Load(ctx context.Context, sessionID string) (models.FormFields, error)
	Save(ctx context.Context, sessionID string, fields models.FormFields) error
	Clear(ctx context.Context, sessionID string) error
}

type memoryEntry struct {
	fields    models.FormFields
	expiresAt time.Time
}

// MemoryStore is the single-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates a store whose entries expire ttl after their last
// save. A ttl of zero keeps entries until cleared.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (models.FormFields, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[sessionID]
	if !ok {
		return models.FormFields{}, nil
	}
	if s.expired(entry) {
		delete(s.entries, sessionID)
		return models.FormFields{}, nil
	}
	return entry.fields, nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, fields models.FormFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpired()
	entry := memoryEntry{fields: fields}
	if s.ttl > 0 {
		entry.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[sessionID] = entry
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, sessionID)
	return nil
}

// Len returns the number of live sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpired()
	return len(s.entries)
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}

// purgeExpired must be called with mu held.
func (s *MemoryStore) purgeExpired() {
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
		}
	}
}
