//go:build integration

package grant

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biopay/internal/payment/models"
	"biopay/pkg/sentinel"
	"biopay/pkg/testutil/containers"
)

func TestPostgresStore(t *testing.T) {
	pg := containers.NewPostgresContainer(t)
	store := NewPostgres(pg.DB)
	ctx := context.Background()

	newRecord := func(clientID uuid.UUID) models.PendingGrantRecord {
		return models.PendingGrantRecord{
			TransactionID:     uuid.New(),
			ContinuationURI:   "https://auth.example/continue/4f2a",
			ContinuationToken: "continue-token",
			ClientID:          clientID,
			CreatedAt:         time.Now().UTC().Truncate(time.Microsecond),
		}
	}

	t.Run("put and get roundtrip", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		rec := newRecord(uuid.New())
		require.NoError(t, store.Put(ctx, rec))

		got, err := store.Get(ctx, rec.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, rec.ContinuationURI, got.ContinuationURI)
		assert.Equal(t, rec.ContinuationToken, got.ContinuationToken)
		assert.Equal(t, rec.ClientID, got.ClientID)
	})

	t.Run("put refuses to overwrite", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		rec := newRecord(uuid.New())
		require.NoError(t, store.Put(ctx, rec))

		rec.ContinuationToken = "a different token"
		err := store.Put(ctx, rec)
		require.ErrorIs(t, err, sentinel.ErrConflict)

		got, err := store.Get(ctx, rec.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, "continue-token", got.ContinuationToken)
	})

	t.Run("get missing yields not found", func(t *testing.T) {
		_, err := store.Get(ctx, uuid.New())
		require.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("list by client", func(t *testing.T) {
		require.NoError(t, pg.TruncateAll(ctx))
		clientID := uuid.New()
		require.NoError(t, store.Put(ctx, newRecord(clientID)))
		require.NoError(t, store.Put(ctx, newRecord(clientID)))
		require.NoError(t, store.Put(ctx, newRecord(uuid.New())))

		records, err := store.ListByClient(ctx, clientID)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}
