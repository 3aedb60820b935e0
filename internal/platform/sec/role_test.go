// Copyright (c) 2026 Lawha. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lawhahq/lawha/internal/platform/sec"
)

/*
TestUserRole_AtLeast validates the role hierarchy comparisons used by the
authorization middleware.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		name   string
		role   sec.UserRole
		target sec.UserRole
		want   bool
	}{
		{"admin_over_everyone", sec.RoleAdmin, sec.RoleCollector, true},
		{"admin_meets_admin", sec.RoleAdmin, sec.RoleAdmin, true},
		{"moderator_over_gallery", sec.RoleModerator, sec.RoleGallery, true},
		{"gallery_meets_artist_threshold", sec.RoleGallery, sec.RoleArtist, true},
		{"artist_below_gallery", sec.RoleArtist, sec.RoleGallery, false},
		{"collector_below_artist", sec.RoleCollector, sec.RoleArtist, false},
		{"unknown_below_all", sec.UserRole("ghost"), sec.RoleCollector, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.AtLeast(tt.target))
		})
	}
}

func TestUserRole_IsSeller(t *testing.T) {
	assert.True(t, sec.RoleGallery.IsSeller())
	assert.True(t, sec.RoleArtist.IsSeller())
	assert.True(t, sec.RoleAdmin.IsSeller())
	assert.False(t, sec.RoleModerator.IsSeller())
	assert.False(t, sec.RoleCollector.IsSeller())
}

func TestValidRole(t *testing.T) {
	assert.True(t, sec.ValidRole("collector"))
	assert.True(t, sec.ValidRole("gallery"))
	assert.False(t, sec.ValidRole("superuser"))
	assert.False(t, sec.ValidRole(""))
}
