// Copyright (c) 2026 Lawha. All rights reserved.

/*
Package account handles user profile management, session transparency, and the
admin-side account controls (role assignment, suspension, seller verification).

# Architecture

  - Entities: SessionInfo (DTO); the User entity itself lives in the auth package.
  - Domain: user-facing profile endpoints plus the /admin/users surface.
  - Security: admin mutations require [sec.RoleAdmin]; moderators may suspend.
*/
package account

import (
	"context"
	"time"

	"github.com/lawhahq/lawha/internal/users/auth"
)

// # Domain Entities

// SessionInfo provides a safety-mapped view of an active user session.
// It omits sensitive token hashes for transport.
type SessionInfo struct {
	ID        string    `json:"id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IsCurrent bool      `json:"is_current"` // True if this session belongs to the current request
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Query  string // ILIKE match against username, email, display name
	Role   string
	Status string
}

// # Field Identifiers

const (
	FieldDisplayName = "display_name"
	FieldAvatarURL   = "avatar_url"
	FieldBio         = "bio"
	FieldRole        = "role"
	FieldStatus      = "status"
)

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	// FindByID retrieves a user record by their unique ID.
	FindByID(context context.Context, id string) (*auth.User, error)

	// List returns a filtered, paginated page of accounts plus the total count.
	List(context context.Context, filter UserFilter, limit, offset int) ([]*auth.User, int, error)

	// Update modifies the mutable profile fields of an existing user.
	Update(context context.Context, user *auth.User) error

	// SetRole replaces the account's role.
	SetRole(context context.Context, id string, role string) error

	// SetStatus switches the account between active and suspended.
	SetStatus(context context.Context, id string, status auth.AccountStatus) error

	// MarkVerified flags a seller account as identity-verified.
	MarkVerified(context context.Context, id string) error

	// SoftDelete flags an account as logically deleted.
	SoftDelete(context context.Context, id string) error
}

// SessionRepository defines the visibility and revocation contract for user sessions.
type SessionRepository interface {
	// FindActiveByUserID lists all valid, non-expired sessions for a user.
	FindActiveByUserID(context context.Context, userID string) ([]SessionInfo, error)

	// Revoke marks a specific session as revoked. The userID constrains the
	// operation to sessions the caller owns.
	Revoke(context context.Context, userID, sessionID string) error

	// RevokeAll terminates every session for a user. Used on suspension.
	RevokeAll(context context.Context, userID string) error
}
