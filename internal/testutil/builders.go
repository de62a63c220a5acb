package testutil

import (
	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
)

// RecordBuilder provides a fluent interface for building session records.
type RecordBuilder struct {
	rec domainsession.Record
}

// NewRecord creates a RecordBuilder with a complete, valid record.
func NewRecord() *RecordBuilder {
	return &RecordBuilder{rec: domainsession.Record{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		User: domainsession.User{
			ID:       "user-1",
			Email:    "dentist@example.com",
			FullName: "Dana Dentist",
			Role:     domainsession.RoleUser,
		},
	}}
}

// WithAccessToken sets the access token.
func (b *RecordBuilder) WithAccessToken(token string) *RecordBuilder {
	b.rec.AccessToken = token
	return b
}

// WithRefreshToken sets the refresh token.
func (b *RecordBuilder) WithRefreshToken(token string) *RecordBuilder {
	b.rec.RefreshToken = token
	return b
}

// WithUser sets the user.
func (b *RecordBuilder) WithUser(user domainsession.User) *RecordBuilder {
	b.rec.User = user
	return b
}

// WithRole sets the user role.
func (b *RecordBuilder) WithRole(role domainsession.Role) *RecordBuilder {
	b.rec.User.Role = role
	return b
}

// Build returns the record.
func (b *RecordBuilder) Build() domainsession.Record {
	return b.rec
}
