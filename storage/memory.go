package storage

import (
	"context"
	"sync"

	"github.com/richinex/parley/model"
)

// InMemoryStorage implements ConversationStorage using an in-memory map.
// Data is lost when the process terminates. Thread-safe; suitable for
// testing and ephemeral sessions.
type InMemoryStorage struct {
	mu       sync.RWMutex
	order    []string
	sessions map[string][]*model.Message
}

// NewInMemoryStorage creates a new in-memory storage.
func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		sessions: make(map[string][]*model.Message),
	}
}

// Save replaces the stored history for a session.
func (s *InMemoryStorage) Save(_ context.Context, sessionID string, history []*model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		s.order = append(s.order, sessionID)
	}
	s.sessions[sessionID] = copyHistory(history)
	return nil
}

// Load returns the history for a session, or an empty slice if unknown.
func (s *InMemoryStorage) Load(_ context.Context, sessionID string) ([]*model.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history, ok := s.sessions[sessionID]
	if !ok {
		return []*model.Message{}, nil
	}
	return copyHistory(history), nil
}

// Delete removes a session and its history.
func (s *InMemoryStorage) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sessionID)
	for i, id := range s.order {
		if id == sessionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// ListSessions lists all session IDs in insertion order.
func (s *InMemoryStorage) ListSessions(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out, nil
}

// Exists reports whether a session exists.
func (s *InMemoryStorage) Exists(_ context.Context, sessionID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sessions[sessionID]
	return ok, nil
}

// copyHistory deep-copies a history slice so callers cannot mutate stored
// state. Nil placeholders are preserved.
func copyHistory(history []*model.Message) []*model.Message {
	copied := make([]*model.Message, len(history))
	for i, msg := range history {
		if msg != nil {
			m := *msg
			copied[i] = &m
		}
	}
	return copied
}

// Verify InMemoryStorage implements ConversationStorage.
var _ ConversationStorage = (*InMemoryStorage)(nil)
