//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// schema mirrors migrations/schema.sql; integration suites apply it to a
// fresh container instead of depending on an external migration runner.
const schema = `
CREATE TABLE IF NOT EXISTS pending_grants (
    transaction_id     uuid PRIMARY KEY,
    continuation_uri   text NOT NULL,
    continuation_token text NOT NULL,
    client_id          uuid NOT NULL,
    created_at         timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transactions (
    id                     uuid PRIMARY KEY,
    user_id                uuid NOT NULL,
    wallet_id              uuid NOT NULL,
    grant_id               uuid NOT NULL UNIQUE,
    amount                 bigint NOT NULL,
    currency               text NOT NULL,
    asset_scale            int NOT NULL,
    payment_status         text NOT NULL,
    quote_id               text NOT NULL,
    sending_wallet_url     text NOT NULL,
    interledger_payment_id text,
    failure_reason         text,
    created_at             timestamptz NOT NULL,
    completed_at           timestamptz
);

CREATE TABLE IF NOT EXISTS users (
    id            uuid PRIMARY KEY,
    email         text NOT NULL UNIQUE,
    password_hash text NOT NULL,
    name          text NOT NULL,
    status        text NOT NULL,
    created_at    timestamptz NOT NULL,
    updated_at    timestamptz NOT NULL,
    last_login_at timestamptz
);

CREATE TABLE IF NOT EXISTS sessions (
    id           uuid PRIMARY KEY,
    user_id      uuid NOT NULL,
    token_jti    text NOT NULL,
    expires_at   timestamptz NOT NULL,
    is_active    boolean NOT NULL DEFAULT TRUE,
    device_info  text,
    ip_address   text,
    created_at   timestamptz NOT NULL,
    last_used_at timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS wallets (
    id            uuid PRIMARY KEY,
    user_id       uuid NOT NULL,
    name          text NOT NULL,
    wallet_url    text NOT NULL,
    currency_code text,
    is_primary    boolean NOT NULL DEFAULT FALSE,
    status        text NOT NULL,
    created_at    timestamptz NOT NULL
);
`

// PostgresContainer wraps a testcontainers Postgres instance with the schema
// applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DB        *sql.DB
}

// NewPostgresContainer starts a Postgres container and applies the schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("biopay"),
		tcpostgres.WithUsername("biopay"),
		tcpostgres.WithPassword("biopay"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(context.Background())
	})

	return &PostgresContainer{Container: container, DB: db}
}

// TruncateAll clears every table. Use between tests to ensure isolation.
func (p *PostgresContainer) TruncateAll(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx,
		`TRUNCATE pending_grants, transactions, users, sessions, wallets`)
	return err
}
