package wallet

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	pkgerrors "biopay/pkg/domainerrors"
	"biopay/pkg/sentinel"
)

// Service owns wallet registration and lookup.
type Service struct {
	store  Store
	logger *slog.Logger
	clock  func() time.Time
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, clock: time.Now}
}

// CreateRequest registers a wallet address for a user.
type CreateRequest struct {
	Name         string `json:"name"`
	WalletURL    string `json:"walletUrl"`
	CurrencyCode string `json:"currencyCode"`
}

// Create registers a wallet. The user's first wallet becomes the primary, so
// payments work without naming a wallet explicitly.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Wallet, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "wallet name is required")
	}
	if err := validateWalletURL(req.WalletURL); err != nil {
		return nil, err
	}

	primary := false
	if _, err := s.store.GetPrimary(ctx, userID); err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "look up primary wallet", err)
		}
		primary = true
	}

	w := &Wallet{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		WalletURL:    req.WalletURL,
		CurrencyCode: strings.ToUpper(strings.TrimSpace(req.CurrencyCode)),
		Primary:      primary,
		Status:       StatusActive,
		CreatedAt:    s.clock(),
	}
	if err := s.store.Create(ctx, w); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "create wallet", err)
	}
	s.logger.InfoContext(ctx, "wallet registered", "wallet_id", w.ID, "user_id", userID, "primary", primary)
	return w, nil
}

// List returns the user's wallets, oldest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Wallet, error) {
	wallets, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "list wallets", err)
	}
	return wallets, nil
}

// Resolve picks the wallet a payment draws on: the named wallet when an id is
// given, the primary otherwise. A wallet belonging to another user is reported
// as not found rather than forbidden, to avoid confirming its existence.
func (s *Service) Resolve(ctx context.Context, userID, walletID uuid.UUID) (*Wallet, error) {
	var (
		w   *Wallet
		err error
	)
	if walletID == uuid.Nil {
		w, err = s.store.GetPrimary(ctx, userID)
	} else {
		w, err = s.store.GetByID(ctx, walletID)
	}
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "look up wallet", err)
	}
	if w.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
	}
	if w.Status != StatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "wallet is disabled")
	}
	return w, nil
}

func validateWalletURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || u.Host == "" {
		return pkgerrors.New(pkgerrors.CodeBadRequest, "wallet url must be an https URL")
	}
	return nil
}
