package transaction

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"biopay/pkg/sentinel"
)

// MemoryStore keeps transaction records in memory for tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	byGrant map[uuid.UUID]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byGrant: make(map[uuid.UUID]*Record)}
}

func (s *MemoryStore) Create(ctx context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byGrant[rec.GrantID]; exists {
		return sentinel.ErrConflict
	}
	cp := *rec
	s.byGrant[rec.GrantID] = &cp
	return nil
}

func (s *MemoryStore) GetByGrantID(ctx context.Context, grantID uuid.UUID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byGrant[grantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Record
	for _, rec := range s.byGrant {
		if rec.UserID == userID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) MarkCompleted(ctx context.Context, grantID uuid.UUID, paymentID string, completedAt time.Time) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byGrant[grantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if rec.PaymentStatus != StatusPending {
		return nil, sentinel.ErrInvalidState
	}
	rec.PaymentStatus = StatusCompleted
	rec.InterledgerPaymentID = paymentID
	rec.CompletedAt = &completedAt
	cp := *rec
	return &cp, nil
}

func (s *MemoryStore) MarkFailed(ctx context.Context, grantID uuid.UUID, reason string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byGrant[grantID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if rec.PaymentStatus != StatusPending {
		return nil, sentinel.ErrInvalidState
	}
	rec.PaymentStatus = StatusFailed
	rec.FailureReason = reason
	cp := *rec
	return &cp, nil
}
