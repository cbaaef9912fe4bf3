//go:build integration

package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biopay/pkg/testutil/containers"
)

func TestRedisLocker(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	l := NewRedisLocker(rc.Client)
	ctx := context.Background()

	require.NoError(t, rc.FlushAll(ctx))

	ok, err := l.Acquire(ctx, "tx-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Acquire(ctx, "tx-1", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx, "tx-1"))
	ok, err = l.Acquire(ctx, "tx-1", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLockerTTL(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	l := NewRedisLocker(rc.Client)
	ctx := context.Background()

	require.NoError(t, rc.FlushAll(ctx))

	ok, err := l.Acquire(ctx, "tx-ttl", 500*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)

	require.Eventually(t, func() bool {
		ok, err := l.Acquire(ctx, "tx-ttl", time.Minute)
		return err == nil && ok
	}, 5*time.Second, 100*time.Millisecond)
}
