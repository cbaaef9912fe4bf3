//go:build integration

package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"biopay/internal/platform/config"
	"biopay/pkg/testutil/containers"
)

func TestClientHealth(t *testing.T) {
	rc := containers.NewRedisContainer(t)

	client, err := New(config.RedisConfig{URL: rc.Addr})
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	require.NoError(t, client.Health(context.Background()))
}
