package httpserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBoundsSlowClients(t *testing.T) {
	srv := New(":8080", http.NotFoundHandler())

	assert.Equal(t, ":8080", srv.Addr)
	require.NotZero(t, srv.ReadHeaderTimeout)
	require.NotZero(t, srv.ReadTimeout)
	require.NotZero(t, srv.IdleTimeout)

	// Handlers are cut off by the 30s request-context timeout; the server's
	// write deadline must sit above it so the error body still goes out.
	assert.Greater(t, srv.WriteTimeout.Seconds(), 30.0)
}
