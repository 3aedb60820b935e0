// Copyright (c) 2026 Lawha. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for authentication,
authorization, and account lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/lawhahq/lawha/internal/platform/sec"
)

// # Domain Entities

// AccountStatus tracks whether an account may authenticate.
type AccountStatus string

const (
	// StatusActive is the normal state of an account.
	StatusActive AccountStatus = "active"

	// StatusSuspended blocks login and all authenticated actions. Set and
	// cleared exclusively through the admin endpoints.
	StatusSuspended AccountStatus = "suspended"
)

// User represents a registered member of the Lawha marketplace: a collector,
// an independent artist, a gallery, or a staff account.
type User struct {
	ID           string        `json:"id"`
	Username     string        `json:"username"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string        `json:"display_name"`
	AvatarURL    string        `json:"avatar_url,omitempty"`
	Bio          string        `json:"bio,omitempty"`
	Role         sec.UserRole  `json:"role"`
	Status       AccountStatus `json:"status"`
	IsVerified   bool          `json:"is_verified"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Session represents an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldLogin           = "login"
	FieldRole            = "role"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
