package memstore

import (
	"fmt"
	"sort"
	"sync"

	"insightpdf/internal/domain"
)

// MemorySessionStore is an in-memory SessionStore with the same
// atomic-replacement semantics as the durable store. Used in tests and
// for throwaway runs.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]domain.SessionRecord
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]domain.SessionRecord),
	}
}

func (s *MemorySessionStore) Put(record domain.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[record.ID] = record
	return nil
}

func (s *MemorySessionStore) Get(id string) (domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.sessions[id]
	if !ok {
		return domain.SessionRecord{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return record, nil
}

func (s *MemorySessionStore) List() ([]domain.SessionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]domain.SessionRecord, 0, len(s.sessions))
	for _, record := range s.sessions {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
	return records, nil
}

func (s *MemorySessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemorySessionStore) Close() error {
	return nil
}
