package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAllows(t *testing.T) {
	tests := []struct {
		name     string
		holder   Role
		required Role
		want     bool
	}{
		{"admin passes admin routes", RoleAdmin, RoleAdmin, true},
		{"admin passes user routes", RoleAdmin, RoleUser, true},
		{"admin passes unknown roles", RoleAdmin, Role("dentist"), true},
		{"user passes user routes", RoleUser, RoleUser, true},
		{"user fails admin routes", RoleUser, RoleAdmin, false},
		{"empty holder defaults to user", Role(""), RoleUser, true},
		{"empty holder fails admin routes", Role(""), RoleAdmin, false},
		{"empty requirement passes anyone", Role(""), Role(""), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.holder.Allows(tt.required))
		})
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unknown", StateUnknown.String())
	assert.Equal(t, "anonymous", StateAnonymous.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "invalid", State(99).String())
}

func TestRecordValid(t *testing.T) {
	valid := Record{AccessToken: "acc", User: User{ID: "u1"}}
	assert.True(t, valid.Valid())

	assert.False(t, Record{User: User{ID: "u1"}}.Valid(), "access token required")
	assert.False(t, Record{AccessToken: "acc"}.Valid(), "user identity required")
	assert.False(t, Record{}.Valid())

	// Refresh token is optional: a session without one is restorable, it just
	// cannot be refreshed later.
	valid.RefreshToken = ""
	assert.True(t, valid.Valid())
}
