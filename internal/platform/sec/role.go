// Copyright (c) 2026 Lawha. All rights reserved.

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can manage community content and moderate accounts
	RoleModerator UserRole = "moderator"

	// A gallery account: manages its roster of artists, artworks, auctions,
	// exhibitions, and invoices
	RoleGallery UserRole = "gallery"

	// An independent artist account: sells own artworks and runs workshops
	RoleArtist UserRole = "artist"

	// Default role for standard registered users (buyers/bidders)
	RoleCollector UserRole = "collector"
)

// IsSeller reports whether the role may own artworks, auctions, and invoices.
func (r UserRole) IsSeller() bool {
	return r == RoleGallery || r == RoleArtist || r == RoleAdmin
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {

	// Linear scale (10-50) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 50
	case RoleModerator:
		return 40
	case RoleGallery:
		return 30
	case RoleArtist:
		return 20
	case RoleCollector:
		return 10
	default:
		return 0
	}
}

// ValidRole reports whether s is a recognized role name. Used by the admin
// role-assignment endpoint before persisting.
func ValidRole(s string) bool {
	switch UserRole(s) {
	case RoleAdmin, RoleModerator, RoleGallery, RoleArtist, RoleCollector:
		return true
	}
	return false
}
