package transaction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"biopay/pkg/sentinel"
)

// PostgresStore persists transaction records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed transaction store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const transactionColumns = `
	id, user_id, wallet_id, grant_id, amount, currency, asset_scale,
	payment_status, quote_id, sending_wallet_url, interledger_payment_id,
	failure_reason, created_at, completed_at`

func (s *PostgresStore) Create(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO transactions (
			id, user_id, wallet_id, grant_id, amount, currency, asset_scale,
			payment_status, quote_id, sending_wallet_url, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.WalletID, rec.GrantID, rec.Amount, rec.Currency,
		rec.AssetScale, rec.PaymentStatus, rec.QuoteID, rec.SendingWalletURL, rec.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByGrantID(ctx context.Context, grantID uuid.UUID) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE grant_id = $1`, grantID)
	return scanRecord(row)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

// MarkCompleted transitions a pending row to completed. The status guard in
// the WHERE clause makes the transition single-shot even under concurrent
// confirmation calls.
func (s *PostgresStore) MarkCompleted(ctx context.Context, grantID uuid.UUID, paymentID string, completedAt time.Time) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE transactions
		SET payment_status = $1, interledger_payment_id = $2, completed_at = $3
		WHERE grant_id = $4 AND payment_status = $5
		RETURNING `+transactionColumns,
		StatusCompleted, paymentID, completedAt, grantID, StatusPending)
	rec, err := scanRecord(row)
	if errors.Is(err, sentinel.ErrNotFound) {
		// Either the row is missing or it already left the pending state.
		if _, getErr := s.GetByGrantID(ctx, grantID); getErr == nil {
			return nil, sentinel.ErrInvalidState
		}
		return nil, sentinel.ErrNotFound
	}
	return rec, err
}

func (s *PostgresStore) MarkFailed(ctx context.Context, grantID uuid.UUID, reason string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE transactions
		SET payment_status = $1, failure_reason = $2
		WHERE grant_id = $3 AND payment_status = $4
		RETURNING `+transactionColumns,
		StatusFailed, reason, grantID, StatusPending)
	rec, err := scanRecord(row)
	if errors.Is(err, sentinel.ErrNotFound) {
		if _, getErr := s.GetByGrantID(ctx, grantID); getErr == nil {
			return nil, sentinel.ErrInvalidState
		}
		return nil, sentinel.ErrNotFound
	}
	return rec, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var paymentID, failureReason sql.NullString
	var completedAt sql.NullTime
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.WalletID, &rec.GrantID, &rec.Amount,
		&rec.Currency, &rec.AssetScale, &rec.PaymentStatus, &rec.QuoteID,
		&rec.SendingWalletURL, &paymentID, &failureReason, &rec.CreatedAt, &completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan transaction: %w", err)
	}
	rec.InterledgerPaymentID = paymentID.String
	rec.FailureReason = failureReason.String
	if completedAt.Valid {
		rec.CompletedAt = &completedAt.Time
	}
	return &rec, nil
}
