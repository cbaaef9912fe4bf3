package grant

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biopay/internal/payment/models"
	"biopay/pkg/sentinel"
)

func record(txID, clientID uuid.UUID) models.PendingGrantRecord {
	return models.PendingGrantRecord{
		TransactionID:     txID,
		ContinuationURI:   "https://auth.example/continue/" + txID.String(),
		ContinuationToken: "cont-" + txID.String(),
		ClientID:          clientID,
		CreatedAt:         time.Now(),
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("put then get", func(t *testing.T) {
		store := NewMemoryStore()
		txID := uuid.New()
		rec := record(txID, uuid.New())
		require.NoError(t, store.Put(ctx, rec))

		got, err := store.Get(ctx, txID)
		require.NoError(t, err)
		assert.Equal(t, rec.ContinuationURI, got.ContinuationURI)
		assert.Equal(t, rec.ContinuationToken, got.ContinuationToken)
	})

	t.Run("get unknown id returns not found", func(t *testing.T) {
		store := NewMemoryStore()
		_, err := store.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("duplicate put conflicts, never overwrites", func(t *testing.T) {
		store := NewMemoryStore()
		txID := uuid.New()
		first := record(txID, uuid.New())
		require.NoError(t, store.Put(ctx, first))

		second := first
		second.ContinuationToken = "different"
		assert.ErrorIs(t, store.Put(ctx, second), sentinel.ErrConflict)

		got, err := store.Get(ctx, txID)
		require.NoError(t, err)
		assert.Equal(t, first.ContinuationToken, got.ContinuationToken)
	})

	t.Run("list by client", func(t *testing.T) {
		store := NewMemoryStore()
		clientID := uuid.New()
		require.NoError(t, store.Put(ctx, record(uuid.New(), clientID)))
		require.NoError(t, store.Put(ctx, record(uuid.New(), clientID)))
		require.NoError(t, store.Put(ctx, record(uuid.New(), uuid.New())))

		recs, err := store.ListByClient(ctx, clientID)
		require.NoError(t, err)
		assert.Len(t, recs, 2)
	})
}

func TestMemoryStoreConcurrentPut(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	txID := uuid.New()

	const goroutines = 50
	var wg sync.WaitGroup
	conflicts := make(chan error, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.Put(ctx, record(txID, uuid.New())); err != nil {
				conflicts <- err
			}
		}()
	}
	wg.Wait()
	close(conflicts)

	// Exactly one insert wins; every other attempt observes the conflict.
	assert.Len(t, conflicts, goroutines-1)
	for err := range conflicts {
		assert.ErrorIs(t, err, sentinel.ErrConflict)
	}
}
