package transaction

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"biopay/internal/platform/middleware"
	"biopay/internal/transport/shared"
	pkgerrors "biopay/pkg/domainerrors"
)

// Handler exposes the transaction history endpoint.
type Handler struct {
	store        Store
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

func NewHandler(store Store, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{store: store, logger: logger, jwtValidator: jwtValidator}
}

func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Get("/transactions", h.handleList)
	})
}

// view renders amounts at their stored asset scale instead of exposing raw
// minor units.
type view struct {
	ID                   uuid.UUID  `json:"id"`
	WalletID             uuid.UUID  `json:"walletId"`
	Amount               string     `json:"amount"`
	Currency             string     `json:"currency"`
	PaymentStatus        string     `json:"paymentStatus"`
	InterledgerPaymentID string     `json:"interledgerPaymentId,omitempty"`
	FailureReason        string     `json:"failureReason,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	CompletedAt          *time.Time `json:"completedAt,omitempty"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := uuid.Parse(middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "authentication context error"))
		return
	}

	records, err := h.store.ListByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list transactions failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, pkgerrors.Wrap(pkgerrors.CodeInternal, "list transactions", err))
		return
	}

	out := make([]view, 0, len(records))
	for _, rec := range records {
		out = append(out, view{
			ID:                   rec.ID,
			WalletID:             rec.WalletID,
			Amount:               rec.DisplayAmount(),
			Currency:             rec.Currency,
			PaymentStatus:        rec.PaymentStatus,
			InterledgerPaymentID: rec.InterledgerPaymentID,
			FailureReason:        rec.FailureReason,
			CreatedAt:            rec.CreatedAt,
			CompletedAt:          rec.CompletedAt,
		})
	}
	shared.WriteJSON(w, http.StatusOK, out)
}
