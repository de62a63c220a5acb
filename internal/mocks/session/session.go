package session

// Package session contains simple hand-written test doubles for the session
// ports. These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"sync"

	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
	"github.com/dentnotion/dentnotion/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.SessionStorage = (*MemoryStorage)(nil)
	_ ports.IdentityAPI    = (*StubIdentityAPI)(nil)
)

// MemoryStorage is an in-memory SessionStorage with optional injected
// failures, mirroring what localStorage does for the web client.
type MemoryStorage struct {
	mu  sync.Mutex
	rec domainsession.Record
	set bool

	// LoadErr, SaveErr and ClearErr, when non-nil, are returned instead of
	// touching the record.
	LoadErr  error
	SaveErr  error
	ClearErr error

	SaveCalls  int
	ClearCalls int
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

// Seed pre-loads a record as if a previous run had persisted it.
func (m *MemoryStorage) Seed(rec domainsession.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	m.set = true
}

// Stored returns the current record and whether one exists.
func (m *MemoryStorage) Stored() (domainsession.Record, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, m.set
}

func (m *MemoryStorage) Load(context.Context) (domainsession.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return domainsession.Record{}, m.LoadErr
	}
	if !m.set {
		return domainsession.Record{}, ports.ErrNoRecord
	}
	return m.rec, nil
}

func (m *MemoryStorage) Save(_ context.Context, rec domainsession.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.rec = rec
	m.set = true
	return nil
}

func (m *MemoryStorage) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ClearCalls++
	if m.ClearErr != nil {
		return m.ClearErr
	}
	m.rec = domainsession.Record{}
	m.set = false
	return nil
}

// StubIdentityAPI implements ports.IdentityAPI with per-method functions.
// Unset methods fail loudly via nil dereference, which is the desired test
// behavior: a call the test did not expect should not silently succeed.
type StubIdentityAPI struct {
	SignupFunc               func(ctx context.Context, creds ports.Credentials) (domainsession.User, ports.TokenPair, error)
	LoginFunc                func(ctx context.Context, creds ports.Credentials) (domainsession.User, ports.TokenPair, error)
	RefreshFunc              func(ctx context.Context, refreshToken string) (ports.TokenPair, error)
	LogoutFunc               func(ctx context.Context, accessToken string) error
	RequestPasswordResetFunc func(ctx context.Context, email string) error
	ConfirmPasswordResetFunc func(ctx context.Context, in ports.PasswordResetConfirm) error
	ChangePasswordFunc       func(ctx context.Context, in ports.PasswordChange) error
	ChangeEmailFunc          func(ctx context.Context, in ports.EmailChange) error
}

func (s *StubIdentityAPI) Signup(ctx context.Context, creds ports.Credentials) (domainsession.User, ports.TokenPair, error) {
	return s.SignupFunc(ctx, creds)
}

func (s *StubIdentityAPI) Login(ctx context.Context, creds ports.Credentials) (domainsession.User, ports.TokenPair, error) {
	return s.LoginFunc(ctx, creds)
}

func (s *StubIdentityAPI) Refresh(ctx context.Context, refreshToken string) (ports.TokenPair, error) {
	return s.RefreshFunc(ctx, refreshToken)
}

func (s *StubIdentityAPI) Logout(ctx context.Context, accessToken string) error {
	return s.LogoutFunc(ctx, accessToken)
}

func (s *StubIdentityAPI) RequestPasswordReset(ctx context.Context, email string) error {
	return s.RequestPasswordResetFunc(ctx, email)
}

func (s *StubIdentityAPI) ConfirmPasswordReset(ctx context.Context, in ports.PasswordResetConfirm) error {
	return s.ConfirmPasswordResetFunc(ctx, in)
}

func (s *StubIdentityAPI) ChangePassword(ctx context.Context, in ports.PasswordChange) error {
	return s.ChangePasswordFunc(ctx, in)
}

func (s *StubIdentityAPI) ChangeEmail(ctx context.Context, in ports.EmailChange) error {
	return s.ChangeEmailFunc(ctx, in)
}
