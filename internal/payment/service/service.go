// Package service orchestrates the outgoing-payment grant flow: resolving
// wallet addresses, negotiating an incoming payment and quote, opening the
// interactive outgoing-payment grant, checkpointing its continuation handle,
// and later finalizing the grant and executing the payment.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"biopay/internal/openpayments"
	"biopay/internal/payment/events"
	"biopay/internal/payment/models"
	"biopay/internal/platform/metrics"
	"biopay/internal/transaction"
)

// Pipeline stage names, used for metrics labels and failure reporting.
const (
	stageResolve  = "resolve"
	stageGrant    = "grant_request"
	stageIncoming = "incoming_payment"
	stageQuote    = "quote"
	stageInteract = "interactive_grant"
	stagePersist  = "persist"
	stageContinue = "continue"
	stageExecute  = "execute"
)

// GrantStore is the durable checkpoint for interactive grants. Put must
// provide insert-if-absent semantics per transaction id.
type GrantStore interface {
	Put(ctx context.Context, rec models.PendingGrantRecord) error
	Get(ctx context.Context, transactionID uuid.UUID) (*models.PendingGrantRecord, error)
}

// Locker serializes finalize attempts for one transaction id across
// processes.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// Config carries the deployment knobs the pipeline needs.
type Config struct {
	// RedirectBaseURI is the confirmation callback handed to the authorization
	// server; the transaction id is appended as the `t` query parameter.
	RedirectBaseURI string
	// DefaultReceiverWalletURL is used when an initiate request names no
	// receiver.
	DefaultReceiverWalletURL string
	// FinalizeLockTTL bounds how long one finalize attempt can exclude others.
	FinalizeLockTTL time.Duration
}

// Service runs the transfer pipeline. All remote interaction goes through the
// openpayments.Client interface so tests can substitute doubles.
type Service struct {
	client       openpayments.Client
	grants       GrantStore
	transactions transaction.Store
	locker       Locker
	publisher    events.Publisher
	metrics      *metrics.Metrics
	logger       *slog.Logger
	cfg          Config
	tracer       trace.Tracer

	clock func() time.Time
	newID func() uuid.UUID
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the time source for testability.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator sets the transaction id source for testability.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// New wires a transfer pipeline service.
func New(
	client openpayments.Client,
	grants GrantStore,
	transactions transaction.Store,
	locker Locker,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg Config,
	opts ...Option,
) *Service {
	if cfg.FinalizeLockTTL <= 0 {
		cfg.FinalizeLockTTL = 30 * time.Second
	}
	if publisher == nil {
		publisher = events.Nop{}
	}
	s := &Service{
		client:       client,
		grants:       grants,
		transactions: transactions,
		locker:       locker,
		publisher:    publisher,
		metrics:      m,
		logger:       logger,
		cfg:          cfg,
		tracer:       otel.Tracer("biopay/payment"),
		clock:        time.Now,
		newID:        uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// observeStage times one pipeline stage.
func (s *Service) observeStage(stage string, start time.Time) {
	s.metrics.ObserveStage(stage, s.clock().Sub(start))
}
