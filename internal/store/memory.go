package store

import (
	"context"
	"sync"
)

// MemoryStore is the in-process backend used by tests and by local runs
// without MySQL/Redis.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]Record)}
}

func copyRecord(rec Record) Record {
	data := make([]byte, len(rec.Data))
	copy(data, rec.Data)
	return Record{ID: rec.ID, Data: data}
}

func (s *MemoryStore) ReadAll(ctx context.Context, collection string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]Record, 0, len(s.collections[collection]))
	for _, rec := range s.collections[collection] {
		records = append(records, copyRecord(rec))
	}
	return records, nil
}

func (s *MemoryStore) ReadByID(ctx context.Context, collection, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.collections[collection] {
		if rec.ID == id {
			return copyRecord(rec), nil
		}
	}
	return Record{}, ErrNotFound
}

func (s *MemoryStore) Append(ctx context.Context, collection string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collections[collection] = append(s.collections[collection], copyRecord(rec))
	return nil
}

func (s *MemoryStore) Replace(ctx context.Context, collection, id string, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.collections[collection] {
		if existing.ID == id {
			s.collections[collection][i] = copyRecord(rec)
			return nil
		}
	}
	return ErrNotFound
}

func (s *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.collections[collection]
	for i, existing := range records {
		if existing.ID == id {
			s.collections[collection] = append(records[:i], records[i+1:]...)
			return nil
		}
	}
	return nil
}
