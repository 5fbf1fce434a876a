package runstore

import (
	"context"
	"sync"

	"github.com/avencia/stageline/pkg/state"
)

// MemoryStore keeps run records in memory. Useful for tests and for running
// without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*state.RunRecord
	order   []string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*state.RunRecord)}
}

// Persist stores the record, replacing any record with the same run ID.
func (s *MemoryStore) Persist(_ context.Context, record *state.RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[record.RunID]; !exists {
		s.order = append(s.order, record.RunID)
	}
	s.records[record.RunID] = record
	return nil
}

// Get returns the record for a run ID.
func (s *MemoryStore) Get(_ context.Context, runID string) (*state.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[runID]
	if !ok {
		return nil, ErrNotFound
	}
	return record, nil
}

// ListByTicket returns records for a ticket in insertion order.
func (s *MemoryStore) ListByTicket(_ context.Context, ticketID string) ([]*state.RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*state.RunRecord
	for _, id := range s.order {
		if record := s.records[id]; record.TicketID == ticketID {
			out = append(out, record)
		}
	}
	return out, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
