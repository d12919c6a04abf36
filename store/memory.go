package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemSlotStore is an in-memory SlotStore. Used by tests and useful for
// running the server without a database.
type MemSlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemSlotStore() *MemSlotStore {
	return &MemSlotStore{slots: make(map[string][]byte)}
}

func (s *MemSlotStore) Load(_ context.Context, slot string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, found := s.slots[slot]
	return data, found, nil
}

func (s *MemSlotStore) Save(_ context.Context, slot string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal slot %q: %w", slot, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = data
	return nil
}

// Put stores raw bytes in a slot, bypassing marshalling. Tests use it to
// seed malformed payloads.
func (s *MemSlotStore) Put(slot string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[slot] = data
}
