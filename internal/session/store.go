package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned when a session id is unknown to the store.
var ErrNotFound = errors.New("session: not found")

// Store persists sessions. Implementations must be safe for concurrent
// use; callers serialize per-session read-modify-write cycles themselves.
type Store interface {
	GetOrCreate(ctx context.Context, id string) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (Stats, error)
}

// MemoryStore keeps sessions in a map. State is lost on restart; use the
// Redis store when that matters.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session, creating it on first use.
func (m *MemoryStore) GetOrCreate(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	s := New(id)
	m.sessions[id] = s
	return s, nil
}

// Get returns the session or ErrNotFound.
func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Save stores the session under its id.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Delete removes the session; deleting an unknown id is a no-op.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// List returns all live session ids.
func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}

// Stats summarizes live sessions.
func (m *MemoryStore) Stats(_ context.Context) (Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := Stats{TotalSessions: len(m.sessions)}
	for _, s := range m.sessions {
		if s.ScamDetected {
			stats.ScamSessions++
		}
		if s.CallbackSent {
			stats.CallbacksSent++
		}
	}
	return stats, nil
}
