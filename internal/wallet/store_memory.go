package wallet

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"biopay/pkg/sentinel"
)

// MemoryStore keeps wallets in memory for tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	wallets map[uuid.UUID]*Wallet
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{wallets: make(map[uuid.UUID]*Wallet)}
}

func (s *MemoryStore) Create(ctx context.Context, w *Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.wallets[w.ID]; exists {
		return sentinel.ErrConflict
	}
	cp := *w
	s.wallets[w.ID] = &cp
	return nil
}

func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Wallet
	for _, w := range s.wallets {
		if w.UserID == userID {
			cp := *w
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) GetPrimary(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.wallets {
		if w.UserID == userID && w.Primary {
			cp := *w
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
