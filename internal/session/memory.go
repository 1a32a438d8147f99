package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session  Session
	deadline time.Time
}

// MemoryStore is the default single-process backend: a mutex-guarded map with
// per-entry deadlines. Expired entries are evicted on access and swept out on
// every Save, so abandoned tokens cannot pile up in a long-lived process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// sweep drops every expired entry. Callers must hold s.mu.
func (s *MemoryStore) sweep(now time.Time) {
	for token, e := range s.entries {
		if now.After(e.deadline) {
			delete(s.entries, token)
		}
	}
}

func (s *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return nil, nil
	}
	if s.now().After(e.deadline) {
		delete(s.entries, token)
		return nil, nil
	}
	sess := e.session
	return &sess, nil
}

func (s *MemoryStore) Save(ctx context.Context, token string, sess *Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweep(now)
	s.entries[token] = memoryEntry{session: *sess, deadline: now.Add(ttl)}
	return nil
}

func (s *MemoryStore) Refresh(ctx context.Context, token string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[token]
	if !ok {
		return nil
	}
	e.deadline = s.now().Add(ttl)
	s.entries[token] = e
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, token)
	return nil
}
