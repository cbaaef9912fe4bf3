// Package openpayments implements the subset of the Open Payments API this
// service consumes: wallet address resolution, GNAP grant requests and
// continuations, and incoming-payment / quote / outgoing-payment creation.
package openpayments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Client is the capability every pipeline stage depends on. Keeping it an
// interface lets tests substitute doubles for the remote servers.
type Client interface {
	GetWalletAddress(ctx context.Context, url string) (*WalletAddress, error)
	RequestGrant(ctx context.Context, authServer string, req GrantRequest) (*Grant, error)
	ContinueGrant(ctx context.Context, cont Continuation) (*Grant, error)
	CreateIncomingPayment(ctx context.Context, resourceServer, accessToken string, req IncomingPaymentRequest) (*IncomingPayment, error)
	CreateQuote(ctx context.Context, resourceServer, accessToken string, req QuoteRequest) (*Quote, error)
	CreateOutgoingPayment(ctx context.Context, resourceServer, accessToken string, req OutgoingPaymentRequest) (*OutgoingPayment, error)
}

// ClientError is a non-2xx response from a wallet, authorization, or resource
// server.
type ClientError struct {
	Status int
	URL    string
	Body   string
}

func (e *ClientError) Error() string {
	return fmt.Sprintf("open payments request to %s failed with status %d: %s", e.URL, e.Status, e.Body)
}

// IsClientError reports whether err is a remote rejection, as opposed to a
// transport failure.
func IsClientError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce)
}

// HTTPClient is the production Client. Every request is signed with the
// configured key and bounded by the configured timeout.
type HTTPClient struct {
	http    *http.Client
	signer  *Signer
	client  string // wallet address URL identifying this client
	timeout time.Duration
	tracer  trace.Tracer
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient overrides the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewHTTPClient constructs a signing Open Payments client. clientWalletURL
// identifies the client to authorization servers; signer may be nil in tests.
func NewHTTPClient(clientWalletURL string, signer *Signer, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		http:    &http.Client{},
		signer:  signer,
		client:  clientWalletURL,
		timeout: 15 * time.Second,
		tracer:  otel.Tracer("biopay/openpayments"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) GetWalletAddress(ctx context.Context, url string) (*WalletAddress, error) {
	if !strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "http://") {
		return nil, fmt.Errorf("wallet address %q must be an absolute URL", url)
	}
	var wa WalletAddress
	if err := c.do(ctx, http.MethodGet, strings.TrimSuffix(url, "/"), "", nil, &wa); err != nil {
		return nil, err
	}
	if wa.AuthServer == "" || wa.ResourceServer == "" {
		return nil, fmt.Errorf("wallet address %s returned incomplete metadata", url)
	}
	return &wa, nil
}

func (c *HTTPClient) RequestGrant(ctx context.Context, authServer string, req GrantRequest) (*Grant, error) {
	if req.Client == "" {
		req.Client = c.client
	}
	var grant Grant
	if err := c.do(ctx, http.MethodPost, authServer, "", req, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (c *HTTPClient) ContinueGrant(ctx context.Context, cont Continuation) (*Grant, error) {
	var grant Grant
	if err := c.do(ctx, http.MethodPost, cont.URI, cont.AccessToken.Value, struct{}{}, &grant); err != nil {
		return nil, err
	}
	return &grant, nil
}

func (c *HTTPClient) CreateIncomingPayment(ctx context.Context, resourceServer, accessToken string, req IncomingPaymentRequest) (*IncomingPayment, error) {
	var payment IncomingPayment
	if err := c.do(ctx, http.MethodPost, joinURL(resourceServer, "incoming-payments"), accessToken, req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *HTTPClient) CreateQuote(ctx context.Context, resourceServer, accessToken string, req QuoteRequest) (*Quote, error) {
	var quote Quote
	if err := c.do(ctx, http.MethodPost, joinURL(resourceServer, "quotes"), accessToken, req, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *HTTPClient) CreateOutgoingPayment(ctx context.Context, resourceServer, accessToken string, req OutgoingPaymentRequest) (*OutgoingPayment, error) {
	var payment OutgoingPayment
	if err := c.do(ctx, http.MethodPost, joinURL(resourceServer, "outgoing-payments"), accessToken, req, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// do performs one signed JSON round trip. accessToken, when set, is sent as a
// GNAP authorization header.
func (c *HTTPClient) do(ctx context.Context, method, url, accessToken string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := c.tracer.Start(ctx, "openpayments."+method,
		trace.WithAttributes(attribute.String("url", url)))
	defer span.End()

	var reader io.Reader
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "GNAP "+accessToken)
	}
	if c.signer != nil {
		if err := c.signer.Sign(req, payload); err != nil {
			return fmt.Errorf("sign request: %w", err)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response from %s: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ClientError{Status: resp.StatusCode, URL: url, Body: strings.TrimSpace(string(respBody))}
	}
	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response from %s: %w", url, err)
		}
	}
	return nil
}

func joinURL(base, path string) string {
	return strings.TrimSuffix(base, "/") + "/" + path
}
