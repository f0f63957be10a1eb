package storage

import (
	"context"
	"sync"

	"cashflow/internal/core"
)

// MemoryStore holds sequences in a plain map. Used in tests and as a
// throwaway backend; nothing survives the process.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string][]core.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]core.Transaction)}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Load(_ context.Context, key string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.data[key]...), nil
}

func (s *MemoryStore) Save(_ context.Context, key string, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]core.Transaction(nil), txs...)
	return nil
}
