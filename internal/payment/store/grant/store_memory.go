// Package grant stores pending-grant continuation handles. The postgres
// implementation is the durable checkpoint the transfer flow resumes from;
// the memory implementation backs tests.
package grant

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"biopay/internal/payment/models"
	"biopay/pkg/sentinel"
)

// MemoryStore keeps pending grant records in memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]models.PendingGrantRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[uuid.UUID]models.PendingGrantRecord)}
}

// Put stores a record, refusing to overwrite an existing transaction id.
func (s *MemoryStore) Put(ctx context.Context, rec models.PendingGrantRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[rec.TransactionID]; exists {
		return sentinel.ErrConflict
	}
	s.records[rec.TransactionID] = rec
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, transactionID uuid.UUID) (*models.PendingGrantRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[transactionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &rec, nil
}

// ListByClient returns the pending grants owned by one client, newest first
// ordering is left to callers.
func (s *MemoryStore) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.PendingGrantRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.PendingGrantRecord
	for _, rec := range s.records {
		if rec.ClientID == clientID {
			out = append(out, rec)
		}
	}
	return out, nil
}
