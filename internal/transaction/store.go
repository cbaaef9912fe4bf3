package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists transfer records. GetByGrantID is the lookup the confirmation
// path uses: the grant's transaction id is the key the redirect callback
// carries.
type Store interface {
	Create(ctx context.Context, rec *Record) error
	GetByGrantID(ctx context.Context, grantID uuid.UUID) (*Record, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Record, error)
	MarkCompleted(ctx context.Context, grantID uuid.UUID, paymentID string, completedAt time.Time) (*Record, error)
	MarkFailed(ctx context.Context, grantID uuid.UUID, reason string) (*Record, error)
}
