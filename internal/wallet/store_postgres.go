package wallet

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"biopay/pkg/sentinel"
)

// PostgresStore persists wallets in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed wallet store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const walletColumns = `id, user_id, name, wallet_url, currency_code, is_primary, status, created_at`

func (s *PostgresStore) Create(ctx context.Context, w *Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, name, wallet_url, currency_code, is_primary, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(ctx, query,
		w.ID, w.UserID, w.Name, w.WalletURL, w.CurrencyCode, w.Primary, w.Status, w.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create wallet: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*Wallet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE id = $1`, id)
	return scanWallet(row)
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Wallet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	defer rows.Close()

	var out []*Wallet
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) GetPrimary(ctx context.Context, userID uuid.UUID) (*Wallet, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+walletColumns+` FROM wallets WHERE user_id = $1 AND is_primary`, userID)
	return scanWallet(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallet(row rowScanner) (*Wallet, error) {
	var w Wallet
	err := row.Scan(&w.ID, &w.UserID, &w.Name, &w.WalletURL, &w.CurrencyCode, &w.Primary, &w.Status, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan wallet: %w", err)
	}
	return &w, nil
}
