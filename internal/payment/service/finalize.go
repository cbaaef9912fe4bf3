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
	"biopay/pkg/sentinel"
)

// Confirm resumes a pending transfer after the user returns from the
// authorization server. The call is safe to repeat: a per-transaction lock
// serializes concurrent attempts, and a terminal result recorded by an earlier
// attempt is returned as-is without touching the remote again.
func (s *Service) Confirm(ctx context.Context, txID uuid.UUID) (*models.FinalizeResult, error) {
	ctx, span := s.tracer.Start(ctx, "payment.Confirm")
	defer span.End()
	span.SetAttributes(attribute.String("transaction_id", txID.String()))

	rec, err := s.grants.Get(ctx, txID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no pending grant for transaction")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailed, "load continuation handle", err)
	}

	tx, err := s.transactions.GetByGrantID(ctx, txID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailed, "load transfer record", err)
	}
	if res := terminalResult(tx); res != nil {
		return res, nil
	}

	lockKey := txID.String()
	acquired, err := s.locker.Acquire(ctx, lockKey, s.cfg.FinalizeLockTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "acquire finalize lock", err)
	}
	if !acquired {
		return &models.FinalizeResult{State: models.StatePending, Transaction: tx}, nil
	}
	defer func() {
		if err := s.locker.Release(ctx, lockKey); err != nil {
			s.logger.WarnContext(ctx, "release finalize lock", "transaction_id", txID, "error", err)
		}
	}()

	// A concurrent attempt may have finished between the first read and the
	// lock; only one holder may ever reach the continuation endpoint.
	tx, err = s.transactions.GetByGrantID(ctx, txID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailed, "load transfer record", err)
	}
	if res := terminalResult(tx); res != nil {
		return res, nil
	}

	grant, err := s.continueGrant(ctx, rec, tx)
	if err != nil {
		return nil, err
	}
	if !grant.Finalized() {
		s.metrics.FinalizePending.Inc()
		s.publisher.Publish(ctx, events.Event{
			Action:        events.ActionGrantPending,
			TransactionID: txID,
			UserID:        tx.UserID,
			Amount:        tx.Amount,
			Currency:      tx.Currency,
			RequestID:     middleware.GetRequestID(ctx),
			Timestamp:     s.clock(),
		})
		s.logger.InfoContext(ctx, "grant still awaiting user interaction", "transaction_id", txID)
		return &models.FinalizeResult{State: models.StatePending, Transaction: tx}, nil
	}

	payment, err := s.executePayment(ctx, tx, grant.AccessToken.Value)
	if err != nil {
		return nil, err
	}

	completed, err := s.transactions.MarkCompleted(ctx, txID, payment.ID, s.clock())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeStoreFailed, "record completed transfer", err)
	}

	s.metrics.PaymentsFinalized.Inc()
	s.publisher.Publish(ctx, events.Event{
		Action:        events.ActionFinalized,
		TransactionID: txID,
		UserID:        completed.UserID,
		Amount:        completed.Amount,
		Currency:      completed.Currency,
		RequestID:     middleware.GetRequestID(ctx),
		Timestamp:     s.clock(),
	})
	s.logger.InfoContext(ctx, "transfer finalized",
		"transaction_id", txID,
		"outgoing_payment_id", payment.ID,
	)

	return &models.FinalizeResult{State: models.StateFinalized, Transaction: completed}, nil
}

// continueGrant polls the continuation endpoint. A protocol-level rejection
// means the handle will never become usable, so the transfer is failed on the
// spot; transport errors leave the record pending for a later retry.
func (s *Service) continueGrant(ctx context.Context, rec *models.PendingGrantRecord, tx *transaction.Record) (*openpayments.Grant, error) {
	defer s.observeStage(stageContinue, s.clock())

	grant, err := s.client.ContinueGrant(ctx, openpayments.Continuation{
		URI:         rec.ContinuationURI,
		AccessToken: openpayments.AccessToken{Value: rec.ContinuationToken},
	})
	if err != nil {
		if openpayments.IsClientError(err) {
			s.failTransfer(ctx, tx, "grant continuation rejected", stageContinue)
			return nil, pkgerrors.Wrap(pkgerrors.CodeGrantContinuation, "continue grant", err)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "continue grant", err)
	}
	return grant, nil
}

// failTransfer records a terminal failure and emits the lifecycle event. The
// record update is best effort; a store error here is logged, not returned,
// because the caller is already propagating the original failure.
func (s *Service) failTransfer(ctx context.Context, tx *transaction.Record, reason, stage string) {
	s.metrics.IncPaymentFailed(stage)

	failed, err := s.transactions.MarkFailed(ctx, tx.GrantID, reason)
	if err != nil {
		s.logger.ErrorContext(ctx, "record failed transfer", "transaction_id", tx.GrantID, "error", err)
		return
	}
	s.publisher.Publish(ctx, events.Event{
		Action:        events.ActionFailed,
		TransactionID: failed.GrantID,
		UserID:        failed.UserID,
		Amount:        failed.Amount,
		Currency:      failed.Currency,
		Reason:        reason,
		RequestID:     middleware.GetRequestID(ctx),
		Timestamp:     s.clock(),
	})
}

func terminalResult(tx *transaction.Record) *models.FinalizeResult {
	switch tx.PaymentStatus {
	case transaction.StatusCompleted:
		return &models.FinalizeResult{State: models.StateFinalized, Transaction: tx}
	case transaction.StatusFailed:
		return &models.FinalizeResult{State: models.StateFailed, Transaction: tx}
	}
	return nil
}
