package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"biopay/internal/payment/models"
	"biopay/internal/platform/middleware"
	"biopay/internal/transaction"
	"biopay/internal/wallet"
	pkgerrors "biopay/pkg/domainerrors"
	"biopay/pkg/testutil"
)

type stubService struct {
	initiate func(ctx context.Context, req models.InitiateRequest) (*models.InitiateResult, error)
	confirm  func(ctx context.Context, txID uuid.UUID) (*models.FinalizeResult, error)
}

func (s *stubService) Initiate(ctx context.Context, req models.InitiateRequest) (*models.InitiateResult, error) {
	return s.initiate(ctx, req)
}

func (s *stubService) Confirm(ctx context.Context, txID uuid.UUID) (*models.FinalizeResult, error) {
	return s.confirm(ctx, txID)
}

type stubResolver struct {
	wallet *wallet.Wallet
	err    error
}

func (s *stubResolver) Resolve(ctx context.Context, userID, walletID uuid.UUID) (*wallet.Wallet, error) {
	return s.wallet, s.err
}

type stubValidator struct {
	claims *middleware.JWTClaims
}

func (v *stubValidator) ValidateToken(string) (*middleware.JWTClaims, error) {
	if v.claims == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid token")
	}
	return v.claims, nil
}

func newRouter(svc Service, resolver WalletResolver, validator middleware.JWTValidator) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, resolver, logger, validator).Register(r)
	return r
}

func authedRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, path, body)
	req.Header.Set("Authorization", "Bearer test-token")
	return req
}

func TestHandleInitiate(t *testing.T) {
	userID := uuid.New()
	walletID := uuid.New()
	txID := uuid.New()
	validator := &stubValidator{claims: &middleware.JWTClaims{UserID: userID.String(), SessionID: uuid.NewString()}}
	resolver := &stubResolver{wallet: &wallet.Wallet{
		ID:        walletID,
		UserID:    userID,
		WalletURL: "https://ilp.example/alice",
		Status:    wallet.StatusActive,
	}}

	t.Run("returns the redirect on success", func(t *testing.T) {
		var got models.InitiateRequest
		svc := &stubService{
			initiate: func(_ context.Context, req models.InitiateRequest) (*models.InitiateResult, error) {
				got = req
				return &models.InitiateResult{
					TransactionID: txID,
					RedirectURL:   "https://auth.example/interact/4f2a",
					DebitAmount:   "20.50",
					AssetCode:     "USD",
				}, nil
			},
		}
		router := newRouter(svc, resolver, validator)

		req := authedRequest(t, http.MethodPost, "/payments", map[string]string{
			"amount":   "20.00",
			"receiver": "https://ilp.example/store",
		})
		rr := testutil.DoRequest(router, req)

		testutil.AssertStatus(t, rr, http.StatusCreated)
		testutil.AssertJSONContains(t, rr, "transactionId", txID.String())
		testutil.AssertJSONContains(t, rr, "redirectUrl", "https://auth.example/interact/4f2a")
		testutil.AssertJSONContains(t, rr, "debitAmount", "20.50")
		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, walletID, got.WalletID)
		assert.Equal(t, "https://ilp.example/alice", got.SenderWalletURL)
		assert.Equal(t, "https://ilp.example/store", got.ReceiverWalletURL)
	})

	t.Run("maps pipeline errors to the error envelope", func(t *testing.T) {
		svc := &stubService{
			initiate: func(context.Context, models.InitiateRequest) (*models.InitiateResult, error) {
				return nil, pkgerrors.New(pkgerrors.CodeResolutionFailed, "resolve sending wallet")
			},
		}
		router := newRouter(svc, resolver, validator)

		rr := testutil.DoRequest(router, authedRequest(t, http.MethodPost, "/payments", map[string]string{"amount": "20.00"}))
		testutil.AssertStatusAndError(t, rr, http.StatusBadGateway, "resolution_failed")
	})

	t.Run("rejects unauthenticated requests", func(t *testing.T) {
		svc := &stubService{}
		router := newRouter(svc, resolver, &stubValidator{})

		req := testutil.NewJSONRequest(t, http.MethodPost, "/payments", map[string]string{"amount": "20.00"})
		rr := testutil.DoRequest(router, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("rejects an unresolvable wallet", func(t *testing.T) {
		svc := &stubService{}
		router := newRouter(svc, &stubResolver{err: pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")}, validator)

		rr := testutil.DoRequest(router, authedRequest(t, http.MethodPost, "/payments", map[string]string{"amount": "20.00"}))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})
}

func TestHandleConfirm(t *testing.T) {
	txID := uuid.New()
	completedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	t.Run("returns the executed payment", func(t *testing.T) {
		svc := &stubService{
			confirm: func(_ context.Context, got uuid.UUID) (*models.FinalizeResult, error) {
				require.Equal(t, txID, got)
				return &models.FinalizeResult{
					State: models.StateFinalized,
					Transaction: &transaction.Record{
						ID:                   uuid.New(),
						Amount:               2050,
						Currency:             "USD",
						AssetScale:           2,
						PaymentStatus:        transaction.StatusCompleted,
						InterledgerPaymentID: "https://rs.example/outgoing-payments/op-1",
						CompletedAt:          &completedAt,
					},
				}, nil
			},
		}
		router := newRouter(svc, &stubResolver{}, &stubValidator{})

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/payments/"+txID.String()+"/confirm"))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONContains(t, rr, "status", "finalized")
	})

	t.Run("reports pending with 202", func(t *testing.T) {
		svc := &stubService{
			confirm: func(context.Context, uuid.UUID) (*models.FinalizeResult, error) {
				return &models.FinalizeResult{State: models.StatePending}, nil
			},
		}
		router := newRouter(svc, &stubResolver{}, &stubValidator{})

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/payments/"+txID.String()+"/confirm"))
		testutil.AssertStatus(t, rr, http.StatusAccepted)
		testutil.AssertJSONContains(t, rr, "status", "pending")
	})

	t.Run("reports a recorded failure with 409", func(t *testing.T) {
		svc := &stubService{
			confirm: func(context.Context, uuid.UUID) (*models.FinalizeResult, error) {
				return &models.FinalizeResult{
					State: models.StateFailed,
					Transaction: &transaction.Record{
						ID:            uuid.New(),
						Amount:        2050,
						AssetScale:    2,
						Currency:      "USD",
						PaymentStatus: transaction.StatusFailed,
						FailureReason: "grant continuation rejected",
					},
				}, nil
			},
		}
		router := newRouter(svc, &stubResolver{}, &stubValidator{})

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/payments/"+txID.String()+"/confirm"))
		testutil.AssertStatus(t, rr, http.StatusConflict)
		testutil.AssertJSONContains(t, rr, "status", "failed")
	})

	t.Run("unknown transaction yields 404", func(t *testing.T) {
		svc := &stubService{
			confirm: func(context.Context, uuid.UUID) (*models.FinalizeResult, error) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no pending grant for transaction")
			},
		}
		router := newRouter(svc, &stubResolver{}, &stubValidator{})

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/payments/"+txID.String()+"/confirm"))
		testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
	})

	t.Run("malformed transaction id yields 400", func(t *testing.T) {
		svc := &stubService{}
		router := newRouter(svc, &stubResolver{}, &stubValidator{})

		rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/payments/not-a-uuid/confirm"))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "bad_request")
	})
}
