package transaction

import (
	"time"

	"github.com/google/uuid"

	"biopay/pkg/money"
)

// Payment statuses a transaction record moves through. Pending rows are
// created at transfer initiation and become completed or failed exactly once.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Record is one transfer attempt. Amount is stored in minor units of the
// sending asset together with its scale, so display conversion never guesses
// the number of decimal places.
type Record struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               uuid.UUID  `json:"userId"`
	WalletID             uuid.UUID  `json:"walletId"`
	GrantID              uuid.UUID  `json:"grantId"`
	Amount               int64      `json:"-"`
	Currency             string     `json:"currency"`
	AssetScale           int        `json:"-"`
	PaymentStatus        string     `json:"paymentStatus"`
	QuoteID              string     `json:"-"`
	SendingWalletURL     string     `json:"-"`
	InterledgerPaymentID string     `json:"interledgerPaymentId,omitempty"`
	FailureReason        string     `json:"failureReason,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
}

// DisplayAmount renders the stored minor-unit amount at its asset scale.
func (r *Record) DisplayAmount() string {
	return money.FromMinorUnits(r.Amount, r.AssetScale)
}
