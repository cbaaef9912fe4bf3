// Package handler exposes the account endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"biopay/internal/auth/models"
	"biopay/internal/platform/middleware"
	"biopay/internal/transport/shared"
	pkgerrors "biopay/pkg/domainerrors"
)

// Service defines the account operations the handler needs.
type Service interface {
	Signup(ctx context.Context, req models.SignupRequest) (*models.User, error)
	Signin(ctx context.Context, req models.SigninRequest, userAgent, remoteAddr string) (*models.SigninResult, error)
	Signout(ctx context.Context, sessionID uuid.UUID) error
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// Handler exposes signup, signin, signout and the current-user endpoint.
type Handler struct {
	service      Service
	logger       *slog.Logger
	jwtValidator middleware.JWTValidator
}

func New(service Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{service: service, logger: logger, jwtValidator: jwtValidator}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/signup", h.handleSignup)
	r.Post("/auth/signin", h.handleSignin)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
		r.Post("/auth/signout", h.handleSignout)
		r.Get("/me", h.handleMe)
	})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid request body"))
		return
	}

	user, err := h.service.Signup(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "signup rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, user)
}

func (h *Handler) handleSignin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid request body"))
		return
	}

	result, err := h.service.Signin(ctx, req, r.UserAgent(), clientIP(r))
	if err != nil {
		h.logger.WarnContext(ctx, "signin rejected",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleSignout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, err := uuid.Parse(middleware.GetSessionID(ctx))
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "authentication context error"))
		return
	}
	if err := h.service.Signout(ctx, sessionID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := uuid.Parse(middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, pkgerrors.New(pkgerrors.CodeInternal, "authentication context error"))
		return
	}
	user, err := h.service.Me(ctx, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, user)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
