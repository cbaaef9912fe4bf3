package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"biopay/internal/auth/models"
	sessionstore "biopay/internal/auth/store/session"
	userstore "biopay/internal/auth/store/user"
	"biopay/internal/platform/metrics"
	pkgerrors "biopay/pkg/domainerrors"
)

const chromeUA = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type AuthServiceSuite struct {
	suite.Suite
	users    *userstore.MemoryStore
	sessions *sessionstore.MemoryStore
	svc      *Service
	now      time.Time
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.users = userstore.NewMemoryStore()
	s.sessions = sessionstore.NewMemoryStore()
	s.now = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.svc = New(s.users, s.sessions, logger, metrics.NewWith(prometheus.NewRegistry()),
		[]byte("test-signing-key"), time.Hour,
		WithClock(func() time.Time { return s.now }))
}

func (s *AuthServiceSuite) signup() *models.User {
	user, err := s.svc.Signup(context.Background(), models.SignupRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
		Name:     "Alice",
	})
	s.Require().NoError(err)
	return user
}

func (s *AuthServiceSuite) TestSignupHashesPassword() {
	user := s.signup()
	s.NotEmpty(user.ID)
	s.Equal("alice@example.com", user.Email)

	stored, err := s.users.GetByEmail(context.Background(), "alice@example.com")
	s.Require().NoError(err)
	s.NotEqual("correct horse battery", stored.PasswordHash)
	s.NotEmpty(stored.PasswordHash)
}

func (s *AuthServiceSuite) TestSignupValidation() {
	cases := []struct {
		name string
		req  models.SignupRequest
	}{
		{"bad email", models.SignupRequest{Email: "not-an-email", Password: "long enough pw", Name: "A"}},
		{"short password", models.SignupRequest{Email: "a@example.com", Password: "short", Name: "A"}},
		{"missing name", models.SignupRequest{Email: "a@example.com", Password: "long enough pw", Name: "  "}},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.svc.Signup(context.Background(), tc.req)
			s.Require().Error(err)
			s.True(pkgerrors.Is(err, pkgerrors.CodeBadRequest))
		})
	}
}

func (s *AuthServiceSuite) TestSignupDuplicateEmail() {
	s.signup()
	_, err := s.svc.Signup(context.Background(), models.SignupRequest{
		Email:    "Alice@Example.com",
		Password: "another password",
		Name:     "Alice Again",
	})
	s.Require().Error(err)
	s.True(pkgerrors.Is(err, pkgerrors.CodeConflict))
}

func (s *AuthServiceSuite) TestSigninIssuesValidToken() {
	user := s.signup()

	result, err := s.svc.Signin(context.Background(), models.SigninRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	}, chromeUA, "203.0.113.7")
	s.Require().NoError(err)
	s.NotEmpty(result.Token)
	s.Equal(user.ID, result.User.ID)
	s.Require().NotNil(result.User.LastLoginAt)
	s.Equal(s.now, *result.User.LastLoginAt)

	claims, err := s.svc.ValidateToken(result.Token)
	s.Require().NoError(err)
	s.Equal(user.ID.String(), claims.UserID)
	s.NotEmpty(claims.SessionID)
}

func (s *AuthServiceSuite) TestSigninRecordsDeviceInfo() {
	user := s.signup()
	result, err := s.svc.Signin(context.Background(), models.SigninRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	}, chromeUA, "203.0.113.7")
	s.Require().NoError(err)

	claims, err := s.svc.ValidateToken(result.Token)
	s.Require().NoError(err)
	sess, err := s.sessions.Get(context.Background(), mustUUID(s, claims.SessionID))
	s.Require().NoError(err)
	s.Equal(user.ID, sess.UserID)
	s.Contains(sess.DeviceInfo, "Chrome")
	s.Equal("203.0.113.7", sess.IPAddress)
}

func (s *AuthServiceSuite) TestSigninWrongPassword() {
	s.signup()
	_, err := s.svc.Signin(context.Background(), models.SigninRequest{
		Email:    "alice@example.com",
		Password: "wrong password",
	}, chromeUA, "")
	s.Require().Error(err)
	s.True(pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
}

func (s *AuthServiceSuite) TestSigninUnknownEmailSameError() {
	_, err := s.svc.Signin(context.Background(), models.SigninRequest{
		Email:    "nobody@example.com",
		Password: "whatever password",
	}, chromeUA, "")
	s.Require().Error(err)
	s.True(pkgerrors.Is(err, pkgerrors.CodeUnauthorized))
}

func (s *AuthServiceSuite) TestSignoutInvalidatesToken() {
	s.signup()
	result, err := s.svc.Signin(context.Background(), models.SigninRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	}, chromeUA, "")
	s.Require().NoError(err)

	claims, err := s.svc.ValidateToken(result.Token)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Signout(context.Background(), mustUUID(s, claims.SessionID)))

	_, err = s.svc.ValidateToken(result.Token)
	s.Require().Error(err)

	// Signing out again is a no-op, not an error.
	s.NoError(s.svc.Signout(context.Background(), mustUUID(s, claims.SessionID)))
}

func (s *AuthServiceSuite) TestValidateTokenRejectsForgery() {
	s.signup()
	result, err := s.svc.Signin(context.Background(), models.SigninRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	}, chromeUA, "")
	s.Require().NoError(err)

	other := New(s.users, s.sessions, slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NewWith(prometheus.NewRegistry()), []byte("a different key"), time.Hour)
	_, err = other.ValidateToken(result.Token)
	s.Require().Error(err)
}

func mustUUID(s *AuthServiceSuite, v string) uuid.UUID {
	id, err := uuid.Parse(v)
	s.Require().NoError(err)
	return id
}

func (s *AuthServiceSuite) TestMe() {
	user := s.signup()
	got, err := s.svc.Me(context.Background(), user.ID)
	s.Require().NoError(err)
	s.Equal(user.Email, got.Email)
}
