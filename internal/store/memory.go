package store

import (
	"context"
	"sync"

	"github.com/carebridge-ai/hospital-chatbot/internal/model"
)

// MemoryStore keeps conversation history in process memory. History grows
// without bound for the life of the process; eviction is left to
// persistent backends.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string][]model.Turn
}

// NewMemoryStore creates an empty in-memory conversation store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string][]model.Turn),
	}
}

// Get returns a copy of the conversation's turns in creation order.
func (s *MemoryStore) Get(ctx context.Context, id string) ([]model.Turn, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, exists := s.conversations[id]
	if !exists {
		return nil, false, nil
	}

	out := make([]model.Turn, len(turns))
	copy(out, turns)
	return out, true, nil
}

// Append adds a turn, creating the conversation if absent.
func (s *MemoryStore) Append(ctx context.Context, id string, turn model.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations[id] = append(s.conversations[id], turn)
	return nil
}

// Delete removes a conversation. Absent ids are a no-op.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, id)
	return nil
}
