// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account with authentication and optional 2FA fields.
// APIKeyEnvelope holds the user's provider credential encrypted under a
// versioned envelope (see internal/secrets); it is never serialized.
type User struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	PasswordHash   string    `json:"-"` // Never serialize the hash
	APIKeyEnvelope *string   `json:"-"` // Nullable; encrypted provider credential
	TOTPSecret     *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled    bool      `json:"totp_enabled"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// HasCredential reports whether the user has stored a provider API key.
func (u *User) HasCredential() bool {
	return u.APIKeyEnvelope != nil && *u.APIKeyEnvelope != ""
}
