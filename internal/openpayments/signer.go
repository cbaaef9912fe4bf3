package openpayments

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Signer produces HTTP message signatures over outbound requests using the
// Ed25519 key registered with the wallet provider. The covered components
// follow what Open Payments servers verify: method, target URI, authorization
// header when present, and a digest of the body.
type Signer struct {
	keyID string
	key   ed25519.PrivateKey
	now   func() time.Time
}

// NewSigner builds a Signer from raw key bytes. Both PKCS#8 PEM and the
// base64-encoded Ed25519 seed handed out by test wallets are accepted.
func NewSigner(keyID string, keyMaterial []byte) (*Signer, error) {
	if keyID == "" {
		return nil, fmt.Errorf("key id is required")
	}
	key, err := parsePrivateKey(keyMaterial)
	if err != nil {
		return nil, err
	}
	return &Signer{keyID: keyID, key: key, now: time.Now}, nil
}

// NewSignerFromFile loads the private key from disk.
func NewSignerFromFile(keyID, path string) (*Signer, error) {
	material, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key %s: %w", path, err)
	}
	return NewSigner(keyID, material)
}

// Sign attaches Signature-Input, Signature, and Content-Digest headers to req.
// body must be the exact payload the request will send (nil for GET).
func (s *Signer) Sign(req *http.Request, body []byte) error {
	components := []string{"@method", "@target-uri"}
	var lines []string
	lines = append(lines, `"@method": `+req.Method)
	lines = append(lines, `"@target-uri": `+req.URL.String())

	if auth := req.Header.Get("Authorization"); auth != "" {
		components = append(components, "authorization")
		lines = append(lines, `"authorization": `+auth)
	}
	if len(body) > 0 {
		sum := sha256.Sum256(body)
		digest := "sha-256=:" + base64.StdEncoding.EncodeToString(sum[:]) + ":"
		req.Header.Set("Content-Digest", digest)
		components = append(components, "content-digest")
		lines = append(lines, `"content-digest": `+digest)
	}

	created := s.now().Unix()
	params := fmt.Sprintf(`("%s");created=%d;keyid="%s";alg="ed25519"`,
		strings.Join(components, `" "`), created, s.keyID)
	lines = append(lines, `"@signature-params": `+params)

	signature := ed25519.Sign(s.key, []byte(strings.Join(lines, "\n")))
	req.Header.Set("Signature-Input", "sig1="+params)
	req.Header.Set("Signature", "sig1=:"+base64.StdEncoding.EncodeToString(signature)+":")
	return nil
}

func parsePrivateKey(material []byte) (ed25519.PrivateKey, error) {
	if block, _ := pem.Decode(material); block != nil {
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("parse PKCS#8 private key: %w", err)
		}
		key, ok := parsed.(ed25519.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("private key is %T, want ed25519", parsed)
		}
		return key, nil
	}

	// Not PEM: treat as a base64-encoded Ed25519 seed.
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(material)))
	if err != nil {
		return nil, fmt.Errorf("private key is neither PEM nor base64: %w", err)
	}
	switch len(decoded) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(decoded), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(decoded), nil
	default:
		return nil, fmt.Errorf("decoded private key has unexpected length %d", len(decoded))
	}
}
