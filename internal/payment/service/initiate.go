package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"biopay/internal/openpayments"
	"biopay/internal/payment/events"
	"biopay/internal/payment/models"
	"biopay/internal/platform/middleware"
	"biopay/internal/transaction"
	pkgerrors "biopay/pkg/domainerrors"
	"biopay/pkg/money"
	"biopay/pkg/sentinel"
)

// Initiate runs the first half of the transfer pipeline: resolve both wallet
// addresses, negotiate the incoming payment and quote, open the interactive
// outgoing-payment grant, and persist its continuation handle. The redirect
// URL is only returned once the checkpoint is durably stored; losing the
// continuation handle would strand a grant the user might still accept.
func (s *Service) Initiate(ctx context.Context, req models.InitiateRequest) (*models.InitiateResult, error) {
	ctx, span := s.tracer.Start(ctx, "payment.Initiate")
	defer span.End()

	receiverURL := req.ReceiverWalletURL
	if receiverURL == "" {
		receiverURL = s.cfg.DefaultReceiverWalletURL
	}
	if req.SenderWalletURL == "" || receiverURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "sender and receiver wallet addresses are required")
	}

	sender, receiver, err := s.resolveParticipants(ctx, req.SenderWalletURL, receiverURL)
	if err != nil {
		return nil, err
	}

	// The amount is converted at the resolved asset scale, not an assumed one.
	amountMinor, err := money.ToMinorUnits(req.Amount, receiver.AssetScale)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeBadRequest, "invalid amount", err)
	}
	if amountMinor == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "amount must be greater than zero")
	}

	incomingGrant, err := s.requestIncomingPaymentGrant(ctx, receiver)
	if err != nil {
		return nil, err
	}
	incomingPayment, err := s.createIncomingPayment(ctx, receiver, incomingGrant, amountMinor)
	if err != nil {
		return nil, err
	}

	quoteGrant, err := s.requestQuoteGrant(ctx, sender)
	if err != nil {
		return nil, err
	}
	quote, err := s.createQuote(ctx, sender, quoteGrant, incomingPayment.ID)
	if err != nil {
		return nil, err
	}

	txID := s.newID()
	span.SetAttributes(attribute.String("transaction_id", txID.String()))

	pending, err := s.requestOutgoingPaymentGrant(ctx, sender, quote, txID)
	if err != nil {
		return nil, err
	}

	if err := s.checkpoint(ctx, req, sender, quote, pending, txID); err != nil {
		return nil, err
	}

	s.metrics.PaymentsInitiated.Inc()
	debitMinor, _ := money.ParseMinorUnits(quote.DebitAmount.Value)
	s.publisher.Publish(ctx, events.Event{
		Action:        events.ActionInitiated,
		TransactionID: txID,
		UserID:        req.UserID,
		Amount:        debitMinor,
		Currency:      quote.DebitAmount.AssetCode,
		RequestID:     middleware.GetRequestID(ctx),
		Timestamp:     s.clock(),
	})
	s.logger.InfoContext(ctx, "transfer initiated, awaiting user interaction",
		"transaction_id", txID,
		"debit_amount", quote.DebitAmount.Value,
		"asset_code", quote.DebitAmount.AssetCode,
	)

	return &models.InitiateResult{
		TransactionID: txID,
		RedirectURL:   pending.Interact.Redirect,
		DebitAmount:   money.FromMinorUnits(debitMinor, quote.DebitAmount.AssetScale),
		AssetCode:     quote.DebitAmount.AssetCode,
		AssetScale:    quote.DebitAmount.AssetScale,
	}, nil
}

// requestOutgoingPaymentGrant opens the interactive grant. The limits must
// match the quote's debit amount exactly; the transaction id doubles as the
// finish nonce so the redirect callback can be correlated.
func (s *Service) requestOutgoingPaymentGrant(ctx context.Context, sender *openpayments.WalletAddress, quote *openpayments.Quote, txID uuid.UUID) (*openpayments.Grant, error) {
	defer s.observeStage(stageInteract, s.clock())

	grant, err := s.client.RequestGrant(ctx, sender.AuthServer, openpayments.GrantRequest{
		AccessToken: openpayments.AccessTokenRequest{
			Access: []openpayments.AccessItem{{
				Type:       openpayments.TypeOutgoingPayment,
				Actions:    []string{"read", "create"},
				Identifier: sender.ID,
				Limits: &openpayments.AccessLimits{
					DebitAmount: &openpayments.Amount{
						Value:      quote.DebitAmount.Value,
						AssetCode:  quote.DebitAmount.AssetCode,
						AssetScale: quote.DebitAmount.AssetScale,
					},
				},
			}},
		},
		Interact: &openpayments.InteractRequest{
			Start: []string{"redirect"},
			Finish: &openpayments.InteractFinish{
				Method: "redirect",
				URI:    s.cfg.RedirectBaseURI + "?t=" + txID.String(),
				Nonce:  txID.String(),
			},
		},
	})
	if err != nil {
		s.metrics.IncPaymentFailed(stageInteract)
		return nil, pkgerrors.Wrap(pkgerrors.CodeGrantRequest, "request outgoing-payment grant", err)
	}
	if !grant.Interactive() || grant.Continue == nil || grant.Continue.URI == "" {
		s.metrics.IncPaymentFailed(stageInteract)
		return nil, pkgerrors.New(pkgerrors.CodeGrantRequest, "outgoing-payment grant is missing interaction or continuation data")
	}
	return grant, nil
}

// checkpoint persists the continuation handle and the pending transaction row.
// Failure here is fatal to the attempt: a redirect the system cannot resume
// must never reach the user.
func (s *Service) checkpoint(ctx context.Context, req models.InitiateRequest, sender *openpayments.WalletAddress, quote *openpayments.Quote, pending *openpayments.Grant, txID uuid.UUID) error {
	defer s.observeStage(stagePersist, s.clock())

	now := s.clock()
	err := s.grants.Put(ctx, models.PendingGrantRecord{
		TransactionID:     txID,
		ContinuationURI:   pending.Continue.URI,
		ContinuationToken: pending.Continue.AccessToken.Value,
		ClientID:          req.UserID,
		CreatedAt:         now,
	})
	if err != nil {
		s.metrics.IncPaymentFailed(stagePersist)
		if errors.Is(err, sentinel.ErrConflict) {
			return pkgerrors.Wrap(pkgerrors.CodeStoreFailed, "transaction id already has an outstanding grant", err)
		}
		return pkgerrors.Wrap(pkgerrors.CodeStoreFailed, "persist continuation handle", err)
	}

	debitMinor, _ := money.ParseMinorUnits(quote.DebitAmount.Value)
	err = s.transactions.Create(ctx, &transaction.Record{
		ID:               s.newID(),
		UserID:           req.UserID,
		WalletID:         req.WalletID,
		GrantID:          txID,
		Amount:           debitMinor,
		Currency:         quote.DebitAmount.AssetCode,
		AssetScale:       quote.DebitAmount.AssetScale,
		PaymentStatus:    transaction.StatusPending,
		QuoteID:          quote.ID,
		SendingWalletURL: sender.ID,
		CreatedAt:        now,
	})
	if err != nil {
		s.metrics.IncPaymentFailed(stagePersist)
		return pkgerrors.Wrap(pkgerrors.CodeStoreFailed, "persist pending transaction", err)
	}
	return nil
}
