package session

import (
	"context"
	"sync"
	"time"

	"github.com/jsamuelsen/quote-generator/internal/domain"
	"github.com/jsamuelsen/quote-generator/internal/ports"
)

var _ ports.SessionStore = (*MemoryStore)(nil)

type memoryEntry struct {
	record    domain.SessionRecord
	expiresAt time.Time
}

// MemoryStore keeps sessions in process memory. Sessions are lost on restart
// and are not shared between replicas; use RedisStore for either.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a store whose records expire ttl after their last save.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns a copy of the record, or a NotFoundError when it is missing or expired.
func (s *MemoryStore) Get(_ context.Context, id string) (*domain.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok || !s.now().Before(entry.expiresAt) {
		delete(s.entries, id)
		return nil, domain.NewNotFoundError("session", id)
	}

	rec := entry.record
	if rec.Credentials != nil {
		creds := *rec.Credentials
		rec.Credentials = &creds
	}

	return &rec, nil
}

func (s *MemoryStore) Save(_ context.Context, rec *domain.SessionRecord) error {
	if rec == nil || rec.ID == "" {
		return domain.NewValidationError("session.id", "is required")
	}

	stored := *rec
	if rec.Credentials != nil {
		creds := *rec.Credentials
		stored.Credentials = &creds
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()
	s.entries[rec.ID] = memoryEntry{record: stored, expiresAt: s.now().Add(s.ttl)}

	return nil
}

// Delete is idempotent.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)

	return nil
}

// Len reports the number of unexpired sessions.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sweep()

	return len(s.entries)
}

// sweep drops expired entries. Caller holds mu.
func (s *MemoryStore) sweep() {
	now := s.now()
	for id, entry := range s.entries {
		if !now.Before(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
}
