// Package models holds the auth domain types.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User statuses.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User is an account holder. PasswordHash never leaves the service layer.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	PasswordHash string     `json:"-"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// Session is one signed-in device. Revoking it invalidates the JWT that
// references it, even before the token expires.
type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	TokenJTI   string
	ExpiresAt  time.Time
	Active     bool
	DeviceInfo string
	IPAddress  string
	CreatedAt  time.Time
	LastUsedAt time.Time
}

// SignupRequest registers a new account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SigninRequest authenticates an existing account.
type SigninRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SigninResult carries the bearer token and the account it belongs to.
type SigninResult struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
