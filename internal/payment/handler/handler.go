// Package handler exposes the transfer endpoints: starting a payment and
// confirming it after the user returns from the authorization server.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"biopay/internal/payment/models"
	"biopay/internal/platform/middleware"
	"biopay/internal/transport/shared"
	"biopay/internal/wallet"
	pkgerrors "biopay/pkg/domainerrors"
)

// Service is the transfer pipeline the handler drives.
type Service interface {
	Initiate(ctx context.Context, req models.InitiateRequest) (*models.InitiateResult, error)
	Confirm(ctx context.Context, txID uuid.UUID) (*models.FinalizeResult, error)
}

// WalletResolver maps a user and optional wallet id onto the wallet a payment
// draws on.
type WalletResolver interface {
	Resolve(ctx context.Context, userID, walletID uuid.UUID) (*wallet.Wallet, error)
}

// Handler exposes the payment endpoints.
type Handler struct {
	service      Service
	wallets      WalletResolver
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

func New(service Service, wallets WalletResolver, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{service: service, wallets: wallets, logger: logger, jwtValidator: jwtValidator}
}

// Register mounts the payment routes. Initiation requires authentication; the
// confirmation callback is reached from the authorization server redirect and
// carries no session, only the unguessable transaction id.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/payments", h.handleInitiate)
	})
	r.Get("/payments/{txID}/confirm", h.handleConfirm)
}

type initiateRequest struct {
	WalletID string `json:"walletId,omitempty"`
	Receiver string `json:"receiver,omitempty"`
	Amount   string `json:"amount"`
}

type initiateResponse struct {
	TransactionID uuid.UUID `json:"transactionId"`
	RedirectURL   string    `json:"redirectUrl"`
	DebitAmount   string    `json:"debitAmount"`
	AssetCode     string    `json:"assetCode"`
}

func (h *Handler) handleInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	userID, err := uuid.Parse(middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "authentication context error"))
		return
	}

	var req initiateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid request body"))
		return
	}
	var walletID uuid.UUID
	if req.WalletID != "" {
		walletID, err = uuid.Parse(req.WalletID)
		if err != nil {
			shared.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid wallet id"))
			return
		}
	}

	src, err := h.wallets.Resolve(ctx, userID, walletID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	result, err := h.service.Initiate(ctx, models.InitiateRequest{
		UserID:            userID,
		WalletID:          src.ID,
		SenderWalletURL:   src.WalletURL,
		ReceiverWalletURL: req.Receiver,
		Amount:            req.Amount,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "payment initiation failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, initiateResponse{
		TransactionID: result.TransactionID,
		RedirectURL:   result.RedirectURL,
		DebitAmount:   result.DebitAmount,
		AssetCode:     result.AssetCode,
	})
}

type confirmResponse struct {
	Status      models.FinalizeState `json:"status"`
	Transaction *transactionView     `json:"transaction,omitempty"`
}

type transactionView struct {
	ID                   uuid.UUID `json:"id"`
	Amount               string    `json:"amount"`
	Currency             string    `json:"currency"`
	PaymentStatus        string    `json:"paymentStatus"`
	InterledgerPaymentID string    `json:"interledgerPaymentId,omitempty"`
	FailureReason        string    `json:"failureReason,omitempty"`
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	txID, err := uuid.Parse(chi.URLParam(r, "txID"))
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid transaction id"))
		return
	}

	result, err := h.service.Confirm(ctx, txID)
	if err != nil {
		h.logger.WarnContext(ctx, "payment confirmation failed",
			"request_id", middleware.GetRequestID(ctx),
			"transaction_id", txID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	resp := confirmResponse{Status: result.State}
	if result.Transaction != nil {
		resp.Transaction = &transactionView{
			ID:                   result.Transaction.ID,
			Amount:               result.Transaction.DisplayAmount(),
			Currency:             result.Transaction.Currency,
			PaymentStatus:        result.Transaction.PaymentStatus,
			InterledgerPaymentID: result.Transaction.InterledgerPaymentID,
			FailureReason:        result.Transaction.FailureReason,
		}
	}

	switch result.State {
	case models.StatePending:
		shared.WriteJSON(w, http.StatusAccepted, resp)
	case models.StateFailed:
		shared.WriteJSON(w, http.StatusConflict, resp)
	default:
		shared.WriteJSON(w, http.StatusOK, resp)
	}
}
