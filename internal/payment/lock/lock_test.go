package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLockerExcludesWhileHeld(t *testing.T) {
	l := NewMemoryLocker()
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "tx-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Acquire(ctx, "tx-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// A different key is independent.
	ok, err = l.Acquire(ctx, "tx-2", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, l.Release(ctx, "tx-1"))
	ok, err = l.Acquire(ctx, "tx-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryLockerExpiry(t *testing.T) {
	l := NewMemoryLocker()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	l.clock = func() time.Time { return now }
	ctx := context.Background()

	ok, err := l.Acquire(ctx, "tx-1", 30*time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	// Still held just before the TTL elapses.
	now = now.Add(29 * time.Second)
	ok, err = l.Acquire(ctx, "tx-1", 30*time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	// A crashed holder's lock falls away once the TTL passes.
	now = now.Add(2 * time.Second)
	ok, err = l.Acquire(ctx, "tx-1", 30*time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
}
