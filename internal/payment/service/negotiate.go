package service

import (
	"context"

	"biopay/internal/openpayments"
	pkgerrors "biopay/pkg/domainerrors"
	"biopay/pkg/money"
)

// createIncomingPayment creates the receiving side of the transfer.
// amountMinor is already converted to minor units of the receiving asset;
// that conversion is the caller's contract, not something inferred here.
func (s *Service) createIncomingPayment(ctx context.Context, receiver *openpayments.WalletAddress, grant *openpayments.Grant, amountMinor int64) (*openpayments.IncomingPayment, error) {
	defer s.observeStage(stageIncoming, s.clock())

	payment, err := s.client.CreateIncomingPayment(ctx, receiver.ResourceServer, grant.AccessToken.Value, openpayments.IncomingPaymentRequest{
		WalletAddress: receiver.ID,
		IncomingAmount: openpayments.Amount{
			Value:      money.FormatMinorUnits(amountMinor),
			AssetCode:  receiver.AssetCode,
			AssetScale: receiver.AssetScale,
		},
	})
	if err != nil {
		s.metrics.IncPaymentFailed(stageIncoming)
		return nil, pkgerrors.Wrap(pkgerrors.CodeNegotiation, "create incoming payment", err)
	}
	return payment, nil
}

// createQuote prices the transfer on the sending side. The quote's debit
// amount is what the interactive grant will be limited to.
func (s *Service) createQuote(ctx context.Context, sender *openpayments.WalletAddress, grant *openpayments.Grant, incomingPaymentID string) (*openpayments.Quote, error) {
	defer s.observeStage(stageQuote, s.clock())

	quote, err := s.client.CreateQuote(ctx, sender.ResourceServer, grant.AccessToken.Value, openpayments.QuoteRequest{
		WalletAddress: sender.ID,
		Receiver:      incomingPaymentID,
		Method:        "ilp",
	})
	if err != nil {
		s.metrics.IncPaymentFailed(stageQuote)
		return nil, pkgerrors.Wrap(pkgerrors.CodeNegotiation, "create quote", err)
	}
	if _, err := money.ParseMinorUnits(quote.DebitAmount.Value); err != nil {
		s.metrics.IncPaymentFailed(stageQuote)
		return nil, pkgerrors.Wrap(pkgerrors.CodeNegotiation, "quote debit amount is not a valid minor-unit value", err)
	}
	if quote.DebitAmount.AssetScale != sender.AssetScale {
		s.metrics.IncPaymentFailed(stageQuote)
		return nil, pkgerrors.New(pkgerrors.CodeNegotiation, "quote debit amount is not denominated in the sending asset scale")
	}
	return quote, nil
}
