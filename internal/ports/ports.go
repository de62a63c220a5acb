package ports

// Package ports defines interfaces (hexagonal ports) for session persistence
// and the backend identity endpoints. Implementations live in
// internal/adapters; orchestration in internal/service.

import (
	"context"

	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
)

// SessionStorage persists the durable session record across restarts. It is
// the Go-side analog of the web client's localStorage keys.
type SessionStorage interface {
	// Load returns the stored record, or ErrNoRecord when none exists.
	// A corrupted record returns a non-nil error distinct from ErrNoRecord.
	Load(ctx context.Context) (domainsession.Record, error)
	Save(ctx context.Context, rec domainsession.Record) error
	// Clear removes the record. Clearing an absent record is not an error.
	Clear(ctx context.Context) error
}

// ErrNoRecord is returned by SessionStorage.Load when nothing is persisted.
type noRecordError struct{}

func (noRecordError) Error() string { return "no session record" }

var ErrNoRecord error = noRecordError{}

// Credentials carries signup/login input.
type Credentials struct {
	Email    string
	Password string
	// FullName is only used by signup and may be empty.
	FullName string
}

// TokenPair is an access/refresh token pair minted by the identity endpoints.
// Refresh tokens are single-use; every refresh returns a new pair.
type TokenPair struct {
	Access  string
	Refresh string
}

// PasswordResetConfirm carries the reset completion input.
type PasswordResetConfirm struct {
	Email       string
	Token       string
	NewPassword string
}

// PasswordChange carries an authenticated password change. AccessToken is the
// bearer credential attached to the call.
type PasswordChange struct {
	AccessToken     string
	CurrentPassword string
	NewPassword     string
}

// EmailChange carries an authenticated email change.
type EmailChange struct {
	AccessToken     string
	NewEmail        string
	CurrentPassword string
}

// IdentityAPI is the backend's auth surface as consumed by the session service.
// All methods are network calls and return normalized api failures.
type IdentityAPI interface {
	Signup(ctx context.Context, creds Credentials) (domainsession.User, TokenPair, error)
	Login(ctx context.Context, creds Credentials) (domainsession.User, TokenPair, error)
	// Refresh exchanges a refresh token for a new pair. The old token is
	// invalidated server-side whether or not the call succeeds.
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	// Logout notifies the backend. Callers treat failures as non-fatal.
	Logout(ctx context.Context, accessToken string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, in PasswordResetConfirm) error
	ChangePassword(ctx context.Context, in PasswordChange) error
	ChangeEmail(ctx context.Context, in EmailChange) error
}
