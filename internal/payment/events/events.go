// Package events publishes payment lifecycle events. Domain code emits
// transport-agnostic Events; a worker drains them into Kafka so a slow or
// absent broker never blocks the transfer pipeline.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Action names for payment lifecycle events.
const (
	ActionInitiated    = "payment.initiated"
	ActionGrantPending = "payment.grant_pending"
	ActionFinalized    = "payment.finalized"
	ActionFailed       = "payment.failed"
)

// Event is emitted from the transfer pipeline to capture key transitions.
type Event struct {
	Action        string    `json:"action"`
	TransactionID uuid.UUID `json:"transactionId"`
	UserID        uuid.UUID `json:"userId"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	Reason        string    `json:"reason,omitempty"`
	RequestID     string    `json:"requestId,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// Publisher accepts events for delivery. Implementations must not block the
// caller; dropping under backpressure is acceptable.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Nop discards all events. Used when Kafka is not configured and in tests.
type Nop struct{}

func (Nop) Publish(ctx context.Context, event Event) {}
