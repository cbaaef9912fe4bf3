package wallet

import (
	"context"

	"github.com/google/uuid"
)

// Store persists wallets. GetPrimary returns sentinel.ErrNotFound when the
// user has no primary wallet yet.
type Store interface {
	Create(ctx context.Context, w *Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Wallet, error)
	GetPrimary(ctx context.Context, userID uuid.UUID) (*Wallet, error)
}
