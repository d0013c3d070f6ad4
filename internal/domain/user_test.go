package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected bool
	}{
		{"admin role", User{Role: RoleAdmin}, true},
		{"staff flag", User{Role: RoleUser, IsStaff: true}, true},
		{"superuser flag", User{Role: RoleUser, IsSuperuser: true}, true},
		{"moderator is not admin", User{Role: RoleModerator}, false},
		{"plain user", User{Role: RoleUser}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.IsAdmin())
		})
	}
}

func TestUser_IsModerator(t *testing.T) {
	assert.True(t, (&User{Role: RoleModerator}).IsModerator())
	assert.False(t, (&User{Role: RoleAdmin}).IsModerator(), "admins are not implicit moderators")
	assert.False(t, (&User{Role: RoleUser}).IsModerator())
}

func TestUser_DisplayName(t *testing.T) {
	full := &User{Username: "jdoe", FirstName: "Jane", LastName: "Doe"}
	assert.Equal(t, "Jane Doe", full.DisplayName())

	partial := &User{Username: "jdoe", FirstName: "Jane"}
	assert.Equal(t, "jdoe", partial.DisplayName(), "falls back to username without a full name")
}

func TestRole_Valid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleModerator.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("root").Valid())
	assert.False(t, Role("").Valid())
}
