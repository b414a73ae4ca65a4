package testhelpers

import (
	"context"
	"sync"
	"time"

	"mockmate/internal/repositories"
)

// MemorySessionStore is an in-process SessionStore for tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]string
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]string)}
}

func (s *MemorySessionStore) Put(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = userID
	return nil
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[sessionID]
	if !ok {
		return "", repositories.ErrSessionNotFound
	}
	return userID, nil
}

func (s *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
