package wallet

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "biopay/pkg/domainerrors"
)

func newService(t *testing.T) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(NewMemoryStore(), logger)
}

func TestCreateFirstWalletBecomesPrimary(t *testing.T) {
	svc := newService(t)
	userID := uuid.New()

	first, err := svc.Create(context.Background(), userID, CreateRequest{
		Name:         "main",
		WalletURL:    "https://ilp.example/alice",
		CurrencyCode: "usd",
	})
	require.NoError(t, err)
	assert.True(t, first.Primary)
	assert.Equal(t, "USD", first.CurrencyCode)

	second, err := svc.Create(context.Background(), userID, CreateRequest{
		Name:      "savings",
		WalletURL: "https://ilp.example/alice-savings",
	})
	require.NoError(t, err)
	assert.False(t, second.Primary)

	wallets, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)
	userID := uuid.New()

	cases := []struct {
		name string
		req  CreateRequest
	}{
		{"missing name", CreateRequest{WalletURL: "https://ilp.example/a"}},
		{"plain http", CreateRequest{Name: "w", WalletURL: "http://ilp.example/a"}},
		{"not a url", CreateRequest{Name: "w", WalletURL: "$ilp.example/a"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), userID, tc.req)
			require.Error(t, err)
			assert.True(t, pkgerrors.Is(err, pkgerrors.CodeBadRequest))
		})
	}
}

func TestResolve(t *testing.T) {
	svc := newService(t)
	owner := uuid.New()
	stranger := uuid.New()

	primary, err := svc.Create(context.Background(), owner, CreateRequest{
		Name:      "main",
		WalletURL: "https://ilp.example/alice",
	})
	require.NoError(t, err)
	secondary, err := svc.Create(context.Background(), owner, CreateRequest{
		Name:      "savings",
		WalletURL: "https://ilp.example/alice-savings",
	})
	require.NoError(t, err)

	t.Run("nil wallet id resolves the primary", func(t *testing.T) {
		got, err := svc.Resolve(context.Background(), owner, uuid.Nil)
		require.NoError(t, err)
		assert.Equal(t, primary.ID, got.ID)
	})

	t.Run("explicit id resolves that wallet", func(t *testing.T) {
		got, err := svc.Resolve(context.Background(), owner, secondary.ID)
		require.NoError(t, err)
		assert.Equal(t, secondary.ID, got.ID)
	})

	t.Run("another user's wallet reads as not found", func(t *testing.T) {
		_, err := svc.Resolve(context.Background(), stranger, primary.ID)
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	})

	t.Run("no primary wallet reads as not found", func(t *testing.T) {
		_, err := svc.Resolve(context.Background(), stranger, uuid.Nil)
		require.Error(t, err)
		assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))
	})
}
