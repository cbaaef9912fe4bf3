package service

import (
	"context"

	"biopay/internal/openpayments"
	"biopay/internal/transaction"
	pkgerrors "biopay/pkg/domainerrors"
)

// executePayment spends the finalized grant token on the quoted transfer. The
// sending wallet is resolved fresh; an arbitrary amount of time may have
// passed since initiation and resource server locations are not cached.
func (s *Service) executePayment(ctx context.Context, tx *transaction.Record, accessToken string) (*openpayments.OutgoingPayment, error) {
	defer s.observeStage(stageExecute, s.clock())

	sender, err := s.client.GetWalletAddress(ctx, tx.SendingWalletURL)
	if err != nil {
		s.metrics.IncPaymentFailed(stageExecute)
		return nil, pkgerrors.Wrap(pkgerrors.CodeResolutionFailed, "resolve sending wallet", err)
	}

	payment, err := s.client.CreateOutgoingPayment(ctx, sender.ResourceServer, accessToken, openpayments.OutgoingPaymentRequest{
		WalletAddress: sender.ID,
		QuoteID:       tx.QuoteID,
	})
	if err != nil {
		if openpayments.IsClientError(err) {
			// The resource server rejected the payment; the single-use token is
			// spent and the quote may have expired. Terminal for this attempt.
			s.failTransfer(ctx, tx, "outgoing payment rejected", stageExecute)
			return nil, pkgerrors.Wrap(pkgerrors.CodeExecution, "create outgoing payment", err)
		}
		s.metrics.IncPaymentFailed(stageExecute)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "create outgoing payment", err)
	}
	return payment, nil
}
