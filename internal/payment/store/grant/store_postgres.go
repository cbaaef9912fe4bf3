package grant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"biopay/internal/payment/models"
	"biopay/pkg/sentinel"
)

// PostgresStore persists pending grant records in PostgreSQL. The primary key
// on transaction_id provides the insert-if-absent semantics the orchestrator
// relies on; there is deliberately no update or delete.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed pending grant store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, rec models.PendingGrantRecord) error {
	query := `
		INSERT INTO pending_grants (transaction_id, continuation_uri, continuation_token, client_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.TransactionID, rec.ContinuationURI, rec.ContinuationToken, rec.ClientID, rec.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("put pending grant: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, transactionID uuid.UUID) (*models.PendingGrantRecord, error) {
	var rec models.PendingGrantRecord
	err := s.db.QueryRowContext(ctx, `
		SELECT transaction_id, continuation_uri, continuation_token, client_id, created_at
		FROM pending_grants
		WHERE transaction_id = $1
	`, transactionID).Scan(
		&rec.TransactionID, &rec.ContinuationURI, &rec.ContinuationToken, &rec.ClientID, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get pending grant: %w", err)
	}
	return &rec, nil
}

// ListByClient returns all pending grants a client owns.
func (s *PostgresStore) ListByClient(ctx context.Context, clientID uuid.UUID) ([]models.PendingGrantRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT transaction_id, continuation_uri, continuation_token, client_id, created_at
		FROM pending_grants
		WHERE client_id = $1
		ORDER BY created_at DESC
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("list pending grants: %w", err)
	}
	defer rows.Close()

	var out []models.PendingGrantRecord
	for rows.Next() {
		var rec models.PendingGrantRecord
		if err := rows.Scan(&rec.TransactionID, &rec.ContinuationURI, &rec.ContinuationToken, &rec.ClientID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pending grant: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending grants: %w", err)
	}
	return out, nil
}
