//go:build integration

package transaction

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biopay/pkg/sentinel"
	"biopay/pkg/testutil/containers"
)

func TestPostgresStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	store := NewPostgres(pg.DB)
	ctx := context.Background()

	newRecord := func(userID uuid.UUID) *Record {
		return &Record{
			ID:               uuid.New(),
			UserID:           userID,
			WalletID:         uuid.New(),
			GrantID:          uuid.New(),
			Amount:           2050,
			Currency:         "USD",
			AssetScale:       2,
			PaymentStatus:    StatusPending,
			QuoteID:          "https://rs.example/quotes/q-1",
			SendingWalletURL: "https://ilp.example/alice",
			CreatedAt:        time.Now().UTC().Truncate(time.Microsecond),
		}
	}

	t.Run("create and get by grant id", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		rec := newRecord(uuid.New())
		require.NoError(t, store.Create(ctx, rec))

		got, err := store.GetByGrantID(ctx, rec.GrantID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, int64(2050), got.Amount)
		assert.Equal(t, StatusPending, got.PaymentStatus)
		assert.Empty(t, got.InterledgerPaymentID)
		assert.Nil(t, got.CompletedAt)
	})

	t.Run("duplicate grant id conflicts", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		rec := newRecord(uuid.New())
		require.NoError(t, store.Create(ctx, rec))

		dup := newRecord(rec.UserID)
		dup.GrantID = rec.GrantID
		require.ErrorIs(t, store.Create(ctx, dup), sentinel.ErrConflict)
	})

	t.Run("mark completed is single shot", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		rec := newRecord(uuid.New())
		require.NoError(t, store.Create(ctx, rec))

		completedAt := time.Now().UTC().Truncate(time.Microsecond)
		got, err := store.MarkCompleted(ctx, rec.GrantID, "op-1", completedAt)
		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, got.PaymentStatus)
		assert.Equal(t, "op-1", got.InterledgerPaymentID)
		require.NotNil(t, got.CompletedAt)

		_, err = store.MarkCompleted(ctx, rec.GrantID, "op-2", completedAt)
		require.ErrorIs(t, err, sentinel.ErrInvalidState)

		_, err = store.MarkFailed(ctx, rec.GrantID, "too late")
		require.ErrorIs(t, err, sentinel.ErrInvalidState)
	})

	t.Run("mark failed records the reason", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		rec := newRecord(uuid.New())
		require.NoError(t, store.Create(ctx, rec))

		got, err := store.MarkFailed(ctx, rec.GrantID, "grant continuation rejected")
		require.NoError(t, err)
		assert.Equal(t, StatusFailed, got.PaymentStatus)
		assert.Equal(t, "grant continuation rejected", got.FailureReason)
	})

	t.Run("mark on missing grant yields not found", func(t *testing.T) {
		_, err := store.MarkCompleted(ctx, uuid.New(), "op-1", time.Now())
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("list by user newest first", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		userID := uuid.New()
		older := newRecord(userID)
		older.CreatedAt = time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
		require.NoError(t, store.Create(ctx, older))
		newer := newRecord(userID)
		require.NoError(t, store.Create(ctx, newer))
		require.NoError(t, store.Create(ctx, newRecord(uuid.New())))

		records, err := store.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, newer.ID, records[0].ID)
		assert.Equal(t, older.ID, records[1].ID)
	})
}
