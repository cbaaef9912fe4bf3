package models

import (
	"time"

	"github.com/google/uuid"

	"biopay/internal/transaction"
)

// PendingGrantRecord is the durable checkpoint for an interactive
// outgoing-payment grant. It is written the moment the authorization server
// issues the grant, before the user is handed the redirect, so the flow can
// resume after an arbitrary delay or a process restart. Records are never
// mutated; a retry supersedes by inserting under a fresh transaction id.
type PendingGrantRecord struct {
	TransactionID     uuid.UUID
	ContinuationURI   string
	ContinuationToken string
	ClientID          uuid.UUID
	CreatedAt         time.Time
}

// InitiateRequest starts a transfer between two wallet addresses. Amount is
// the decimal string the user entered; the orchestrator converts it to minor
// units once the receiving asset scale is known.
type InitiateRequest struct {
	UserID            uuid.UUID
	WalletID          uuid.UUID
	SenderWalletURL   string
	ReceiverWalletURL string
	Amount            string
}

// InitiateResult is what the user-facing layer needs: the transaction id to
// poll with and the URL the end user must visit to accept the grant.
type InitiateResult struct {
	TransactionID uuid.UUID
	RedirectURL   string
	DebitAmount   string
	AssetCode     string
	AssetScale    int
}

// FinalizeState is the observable state of a pending transfer.
type FinalizeState string

const (
	// StatePending means the user has not acted on the grant yet; callers
	// should retry later.
	StatePending FinalizeState = "pending"
	// StateFinalized means the grant was accepted and the payment executed.
	StateFinalized FinalizeState = "finalized"
	// StateFailed is terminal: the continuation is unusable or the payment was
	// rejected. The flow must restart with a fresh transaction id.
	StateFailed FinalizeState = "failed"
)

// FinalizeResult is the outcome of one confirmation attempt. Transaction is
// the transfer record as of this attempt; for StatePending it still shows the
// pending row.
type FinalizeResult struct {
	State       FinalizeState
	Transaction *transaction.Record
}
