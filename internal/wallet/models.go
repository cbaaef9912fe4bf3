// Package wallet manages the payment pointers a user can send from. Each user
// has at most one primary wallet; payments that do not name a wallet draw on
// the primary.
package wallet

import (
	"time"

	"github.com/google/uuid"
)

// Wallet statuses.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// Wallet links a user to an Open Payments wallet address URL.
type Wallet struct {
	ID           uuid.UUID `json:"id"`
	UserID       uuid.UUID `json:"userId"`
	Name         string    `json:"name"`
	WalletURL    string    `json:"walletUrl"`
	CurrencyCode string    `json:"currencyCode"`
	Primary      bool      `json:"isPrimary"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}
