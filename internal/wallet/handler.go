package wallet

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"biopay/internal/platform/middleware"
	"biopay/internal/transport/shared"
	pkgerrors "biopay/pkg/domainerrors"
)

// Handler exposes the wallet endpoints.
type Handler struct {
	service      *Service
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

func NewHandler(service *Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{service: service, logger: logger, jwtValidator: jwtValidator}
}

// Register mounts the wallet routes. All of them require authentication.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/wallets", h.handleCreate)
		r.Get("/wallets", h.handleList)
	})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := uuid.Parse(middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "authentication context error"))
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid request body"))
		return
	}

	wallet, err := h.service.Create(ctx, userID, req)
	if err != nil {
		h.logger.WarnContext(ctx, "wallet create rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, wallet)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := uuid.Parse(middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "authentication context error"))
		return
	}

	wallets, err := h.service.List(ctx, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if wallets == nil {
		wallets = []*Wallet{}
	}
	shared.WriteJSON(w, http.StatusOK, wallets)
}
