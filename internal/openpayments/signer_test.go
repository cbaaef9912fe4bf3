package openpayments

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSigner(t *testing.T) (*Signer, ed25519.PublicKey) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	seed := base64.StdEncoding.EncodeToString(priv.Seed())
	signer, err := NewSigner("test-key", []byte(seed))
	require.NoError(t, err)
	return signer, pub
}

func TestSignerSign(t *testing.T) {
	signer, _ := testSigner(t)

	body := []byte(`{"walletAddress":"https://wallet.example/alice"}`)
	req, err := http.NewRequest(http.MethodPost, "https://auth.example/", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Authorization", "GNAP tok")

	require.NoError(t, signer.Sign(req, body))

	assert.NotEmpty(t, req.Header.Get("Signature"))
	assert.NotEmpty(t, req.Header.Get("Content-Digest"))
	input := req.Header.Get("Signature-Input")
	assert.Contains(t, input, `keyid="test-key"`)
	assert.Contains(t, input, "authorization")
	assert.Contains(t, input, "content-digest")
	assert.True(t, strings.HasPrefix(input, "sig1="))
}

func TestSignerOmitsDigestWithoutBody(t *testing.T) {
	signer, _ := testSigner(t)

	req, err := http.NewRequest(http.MethodGet, "https://wallet.example/alice", nil)
	require.NoError(t, err)

	require.NoError(t, signer.Sign(req, nil))
	assert.Empty(t, req.Header.Get("Content-Digest"))
	assert.NotContains(t, req.Header.Get("Signature-Input"), "content-digest")
}

func TestParsePrivateKey(t *testing.T) {
	t.Run("base64 seed", func(t *testing.T) {
		_, priv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		key, err := parsePrivateKey([]byte(base64.StdEncoding.EncodeToString(priv.Seed())))
		require.NoError(t, err)
		assert.Equal(t, priv, key)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := parsePrivateKey([]byte("not a key"))
		assert.Error(t, err)
	})
}
