package store

import (
	"context"
	"sync"

	"github.com/valpere/reword/internal"
)

// MemoryStore holds the record for the lifetime of the process.
type MemoryStore struct {
	mu    sync.RWMutex
	saved bool
	c     internal.Configuration
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(_ context.Context) internal.Configuration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.saved {
		return internal.DefaultConfiguration()
	}
	return s.c
}

func (s *MemoryStore) Save(_ context.Context, c internal.Configuration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.c = c
	s.saved = true
}
