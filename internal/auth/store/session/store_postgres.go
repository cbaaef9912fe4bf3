package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"biopay/internal/auth/models"
	"biopay/pkg/sentinel"
)

// PostgresStore persists sessions in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, sess *models.Session) error {
	query := `
		INSERT INTO sessions (id, user_id, token_jti, expires_at, is_active, device_info, ip_address, created_at, last_used_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		sess.ID, sess.UserID, sess.TokenJTI, sess.ExpiresAt, sess.Active,
		sess.DeviceInfo, sess.IPAddress, sess.CreatedAt, sess.LastUsedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, token_jti, expires_at, is_active, device_info, ip_address, created_at, last_used_at
		FROM sessions WHERE id = $1`, id)

	var sess models.Session
	err := row.Scan(&sess.ID, &sess.UserID, &sess.TokenJTI, &sess.ExpiresAt, &sess.Active,
		&sess.DeviceInfo, &sess.IPAddress, &sess.CreatedAt, &sess.LastUsedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan session: %w", err)
	}
	return &sess, nil
}

func (s *PostgresStore) Revoke(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
