// Copyright (c) 2026 Lawha. All rights reserved.

package account

import (
	"context"
	"log/slog"

	"github.com/lawhahq/lawha/internal/platform/apperr"
	"github.com/lawhahq/lawha/internal/platform/sec"
	"github.com/lawhahq/lawha/internal/platform/validate"
	"github.com/lawhahq/lawha/internal/users/auth"
)

// Service implements profile and admin account use cases.
type Service struct {
	accounts AccountRepository
	sessions SessionRepository
	logger   *slog.Logger
}

// NewService constructs a new account [Service].
func NewService(accounts AccountRepository, sessions SessionRepository, logger *slog.Logger) *Service {
	return &Service{accounts: accounts, sessions: sessions, logger: logger}
}

// # Profile

// GetProfile returns the full account record of the given user.
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	return service.accounts.FindByID(context, userID)
}

// UpdateProfileInput holds the user-editable profile fields.
type UpdateProfileInput struct {
	DisplayName string
	AvatarURL   string
	Bio         string
}

// UpdateProfile validates and persists profile changes for the given user.
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {
	validator := &validate.Validator{}
	validator.Required(FieldDisplayName, input.DisplayName).
		MaxLen(FieldDisplayName, input.DisplayName, 100).
		MaxLen(FieldBio, input.Bio, 2000)

	if input.AvatarURL != "" {
		validator.URL(FieldAvatarURL, input.AvatarURL)
	}

	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.accounts.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = input.DisplayName
	user.AvatarURL = input.AvatarURL
	user.Bio = input.Bio

	if err := service.accounts.Update(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("profile_updated", slog.String("user_id", userID))
	return user, nil
}

// # Sessions

// ListSessions returns the active sessions of the user, flagging the current one.
func (service *Service) ListSessions(context context.Context, userID, currentTokenHash string) ([]SessionInfo, error) {
	sessions, err := service.sessions.FindActiveByUserID(context, userID)
	if err != nil {
		return nil, err
	}

	for i := range sessions {
		sessions[i].IsCurrent = sessions[i].ID == currentTokenHash
	}
	return sessions, nil
}

// RevokeSession terminates one of the caller's sessions.
func (service *Service) RevokeSession(context context.Context, userID, sessionID string) error {
	return service.sessions.Revoke(context, userID, sessionID)
}

// # Admin Operations

// ListUsers returns a filtered page of accounts for the admin console.
func (service *Service) ListUsers(context context.Context, filter UserFilter, limit, offset int) ([]*auth.User, int, error) {
	if filter.Role != "" && !sec.ValidRole(filter.Role) {
		return nil, 0, apperr.ValidationError("Unknown role filter")
	}
	return service.accounts.List(context, filter, limit, offset)
}

// SetRole changes an account's role. Admin only; an admin cannot demote itself
// to avoid locking the last admin out of the system.
func (service *Service) SetRole(context context.Context, actorID, targetID, role string) error {
	if !sec.ValidRole(role) {
		return apperr.ValidationError("Unknown role", apperr.FieldError{Field: FieldRole, Message: "Must be a valid role name"})
	}

	if actorID == targetID {
		return apperr.Forbidden("Cannot change your own role")
	}

	if err := service.accounts.SetRole(context, targetID, role); err != nil {
		return err
	}

	service.logger.Warn("user_role_changed",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
		slog.String("role", role),
	)
	return nil
}

// SetStatus suspends or reactivates an account. Suspension revokes every
// active session so the user is cut off immediately, not at token expiry.
func (service *Service) SetStatus(context context.Context, actorID, targetID string, status auth.AccountStatus) error {
	if status != auth.StatusActive && status != auth.StatusSuspended {
		return apperr.ValidationError("Unknown status", apperr.FieldError{Field: FieldStatus, Message: "Must be 'active' or 'suspended'"})
	}

	if actorID == targetID {
		return apperr.Forbidden("Cannot change your own status")
	}

	if err := service.accounts.SetStatus(context, targetID, status); err != nil {
		return err
	}

	if status == auth.StatusSuspended {
		_ = service.sessions.RevokeAll(context, targetID)
	}

	service.logger.Warn("user_status_changed",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
		slog.String("status", string(status)),
	)
	return nil
}

// VerifySeller marks a gallery or artist account as identity-verified.
func (service *Service) VerifySeller(context context.Context, actorID, targetID string) error {
	user, err := service.accounts.FindByID(context, targetID)
	if err != nil {
		return err
	}

	if !user.Role.IsSeller() {
		return apperr.Unprocessable("Only artist or gallery accounts can be verified")
	}

	if err := service.accounts.MarkVerified(context, targetID); err != nil {
		return err
	}

	service.logger.Info("seller_verified",
		slog.String("actor_id", actorID),
		slog.String("target_id", targetID),
	)
	return nil
}
