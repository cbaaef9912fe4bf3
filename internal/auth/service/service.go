// Package service implements account signup, session-backed sign-in, and
// bearer token validation.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks UserStore,SessionStore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mssola/useragent"
	"golang.org/x/crypto/bcrypt"

	"biopay/internal/auth/models"
	"biopay/internal/platform/metrics"
	"biopay/internal/platform/middleware"
	pkgerrors "biopay/pkg/domainerrors"
	"biopay/pkg/sentinel"
)

const minPasswordLength = 8

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// SessionStore persists signed-in sessions.
type SessionStore interface {
	Create(ctx context.Context, sess *models.Session) error
	Get(ctx context.Context, id uuid.UUID) (*models.Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}

// Service owns account and session lifecycle. It implements
// middleware.JWTValidator so the router can guard protected routes with it.
type Service struct {
	users      UserStore
	sessions   SessionStore
	logger     *slog.Logger
	metrics    *metrics.Metrics
	signingKey []byte
	sessionTTL time.Duration
	clock      func() time.Time
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

func New(users UserStore, sessions SessionStore, logger *slog.Logger, m *metrics.Metrics, signingKey []byte, sessionTTL time.Duration, opts ...Option) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	s := &Service{
		users:      users,
		sessions:   sessions,
		logger:     logger,
		metrics:    m,
		signingKey: signingKey,
		sessionTTL: sessionTTL,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Signup registers a new account with a bcrypt-hashed password.
func (s *Service) Signup(ctx context.Context, req models.SignupRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "password must be at least 8 characters")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeBadRequest, "name is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "hash password", err)
	}

	now := s.clock()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		Status:       models.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "create user", err)
	}

	s.metrics.UsersCreated.Inc()
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Signin verifies credentials, opens a session, and issues a bearer token
// bound to it. userAgent and remoteAddr come straight from the request.
func (s *Service) Signin(ctx context.Context, req models.SigninRequest, userAgent, remoteAddr string) (*models.SigninResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "look up user", err)
	}
	if user.Status != models.UserStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account is disabled")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := s.clock()
	jti := uuid.NewString()
	sess := &models.Session{
		ID:         uuid.New(),
		UserID:     user.ID,
		TokenJTI:   jti,
		ExpiresAt:  now.Add(s.sessionTTL),
		Active:     true,
		DeviceInfo: describeDevice(userAgent),
		IPAddress:  remoteAddr,
		CreatedAt:  now,
		LastUsedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "create session", err)
	}

	token, err := s.issueToken(user.ID, sess, jti, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "sign token", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WarnContext(ctx, "update last login", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	s.logger.InfoContext(ctx, "user signed in", "user_id", user.ID, "session_id", sess.ID, "device", sess.DeviceInfo)
	return &models.SigninResult{Token: token, User: user}, nil
}

// Signout revokes the session the current token is bound to. Revocation is
// idempotent; signing out twice is not an error.
func (s *Service) Signout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.sessions.Revoke(ctx, sessionID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, "revoke session", err)
	}
	return nil
}

// Me returns the authenticated user's account.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, "look up user", err)
	}
	return user, nil
}

type tokenClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (s *Service) issueToken(userID uuid.UUID, sess *models.Session, jti string, now time.Time) (string, error) {
	claims := tokenClaims{
		SessionID: sess.ID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        jti,
			Issuer:    "biopay",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
}

// ValidateToken implements middleware.JWTValidator. Beyond the signature and
// expiry, the backing session must still be active so signout takes effect
// before the token's own expiry.
func (s *Service) ValidateToken(tokenString string) (*middleware.JWTClaims, error) {
	var claims tokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return s.signingKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	sessionID, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("malformed session id in token")
	}
	sess, err := s.sessions.Get(context.Background(), sessionID)
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	if !sess.Active || sess.TokenJTI != claims.ID {
		return nil, sentinel.ErrExpired
	}
	if s.clock().After(sess.ExpiresAt) {
		return nil, sentinel.ErrExpired
	}

	return &middleware.JWTClaims{UserID: claims.Subject, SessionID: claims.SessionID}, nil
}

func describeDevice(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	if name == "" {
		return "unknown"
	}
	desc := name
	if version != "" {
		desc += " " + version
	}
	if os := ua.OS(); os != "" {
		desc += " on " + os
	}
	return desc
}
