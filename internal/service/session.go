package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/dentnotion/dentnotion/internal/api"
	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
	"github.com/dentnotion/dentnotion/internal/ports"
)

// SessionOptions groups dependencies for SessionService.
type SessionOptions struct {
	API     ports.IdentityAPI
	Storage ports.SessionStorage
	Logger  *slog.Logger
	// CookieName is the guard cookie name. Defaults to "accessToken".
	CookieName string
	// CookieTTL bounds the guard cookie lifetime. Defaults to one hour.
	CookieTTL time.Duration
}

// SessionService is the single authority for "who is logged in". It owns the
// access/refresh tokens, the persisted record, and every identity-mutating
// operation. UI-facing surfaces only read derived state and invoke operations;
// they never touch the fields directly.
//
// State machine: unknown (before Restore) -> anonymous <-> authenticated.
// Authenticated -> anonymous happens only through Logout or a failed Refresh.
type SessionService struct {
	identity ports.IdentityAPI
	storage  ports.SessionStorage
	logger   *slog.Logger

	cookieName string
	cookieTTL  time.Duration

	mu           sync.Mutex
	state        domainsession.State
	user         *domainsession.User
	accessToken  string
	refreshToken string
	inflight     int
	lastErr      string

	// refreshing de-duplicates concurrent refreshes: overlapping callers share
	// one network call and one outcome instead of racing token rotation.
	refreshing singleflight.Group
}

// NewSessionService constructs a SessionService. The session starts in the
// unknown state until Restore runs.
func NewSessionService(opts SessionOptions) (*SessionService, error) {
	if opts.API == nil {
		return nil, errors.New("session: identity API is required")
	}
	if opts.Storage == nil {
		return nil, errors.New("session: storage is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	name := opts.CookieName
	if name == "" {
		name = "accessToken"
	}
	ttl := opts.CookieTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionService{
		identity:   opts.API,
		storage:    opts.Storage,
		logger:     logger,
		cookieName: name,
		cookieTTL:  ttl,
		state:      domainsession.StateUnknown,
	}, nil
}

// Result is the outcome of a session operation. Operations never propagate
// errors to the UI surface; failure is data.
type Result struct {
	OK  bool
	Err string
}

func okResult() Result { return Result{OK: true} }

// State returns the current lifecycle state.
func (s *SessionService) State() domainsession.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Loading reports whether a restore or auth operation is in flight. It gates
// rendering but never blocks a second operation from being issued.
func (s *SessionService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == domainsession.StateUnknown || s.inflight > 0
}

// IsAuthenticated holds exactly when both a user and an access token are set.
func (s *SessionService) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user != nil && s.accessToken != ""
}

// CurrentUser returns a copy of the logged-in identity.
func (s *SessionService) CurrentUser() (domainsession.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return domainsession.User{}, false
	}
	return *s.user, true
}

// LastError returns the most recent operation failure message, empty when the
// last operation succeeded.
func (s *SessionService) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Token implements oauth2.TokenSource so the API client attaches the bearer
// credential the standard way. Anonymous sessions return an error; the client
// then issues the call without credentials and lets the backend answer 401.
func (s *SessionService) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil || s.accessToken == "" {
		return nil, errors.New("session: not authenticated")
	}
	return &oauth2.Token{AccessToken: s.accessToken, TokenType: "Bearer"}, nil
}

var _ oauth2.TokenSource = (*SessionService)(nil)

// Cookie derives the guard cookie from current session state. Handlers set it
// on every response to a mutating operation, so the cookie always mirrors the
// store instead of drifting on its own expiry.
func (s *SessionService) Cookie(secure bool) *http.Cookie {
	s.mu.Lock()
	token := s.accessToken
	authenticated := s.user != nil && token != ""
	s.mu.Unlock()

	c := &http.Cookie{
		Name:     s.cookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if authenticated {
		c.Value = token
		c.MaxAge = int(s.cookieTTL / time.Second)
	} else {
		c.MaxAge = -1
	}
	return c
}

// Restore hydrates the session from durable storage. It runs once at startup,
// performs no network call, and treats unreadable or invalid records as "no
// session" rather than an error. The session always leaves the unknown state.
func (s *SessionService) Restore(ctx context.Context) Result {
	s.beginOp()
	defer s.endOp()

	rec, err := s.storage.Load(ctx)
	switch {
	case errors.Is(err, ports.ErrNoRecord):
		// Nothing persisted; a fresh anonymous session.
	case err != nil:
		s.logger.WarnContext(ctx, "failed to restore session", "error", err)
	case !rec.Valid():
		s.logger.WarnContext(ctx, "persisted session record incomplete; discarding")
	default:
		s.mu.Lock()
		user := rec.User
		s.user = &user
		s.accessToken = rec.AccessToken
		s.refreshToken = rec.RefreshToken
		s.state = domainsession.StateAuthenticated
		s.mu.Unlock()
		return okResult()
	}

	s.mu.Lock()
	s.state = domainsession.StateAnonymous
	s.mu.Unlock()
	return okResult()
}

// Signup registers a new account and, on success, establishes the session
// exactly like Login.
func (s *SessionService) Signup(ctx context.Context, email, password, fullName string) Result {
	return s.credentialOp(ctx, func() (domainsession.User, ports.TokenPair, error) {
		return s.identity.Signup(ctx, ports.Credentials{Email: email, Password: password, FullName: fullName})
	})
}

// Login authenticates with email and password. On success the user and both
// tokens are set together and the record is persisted; on failure the session
// is left untouched and the backend's error text is surfaced.
func (s *SessionService) Login(ctx context.Context, email, password string) Result {
	return s.credentialOp(ctx, func() (domainsession.User, ports.TokenPair, error) {
		return s.identity.Login(ctx, ports.Credentials{Email: email, Password: password})
	})
}

func (s *SessionService) credentialOp(ctx context.Context, call func() (domainsession.User, ports.TokenPair, error)) Result {
	s.beginOp()
	defer s.endOp()

	user, pair, err := call()
	if err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	s.user = &user
	s.accessToken = pair.Access
	s.refreshToken = pair.Refresh
	s.state = domainsession.StateAuthenticated
	s.lastErr = ""
	s.mu.Unlock()

	s.persist(ctx)
	return okResult()
}

// Refresh exchanges the refresh token for a new pair. Without a stored refresh
// token it fails immediately, no network call. A failed refresh tears the whole
// session down: a stale access token is never left in place. Overlapping calls
// share a single in-flight refresh.
func (s *SessionService) Refresh(ctx context.Context) Result {
	s.mu.Lock()
	refreshToken := s.refreshToken
	s.mu.Unlock()
	if refreshToken == "" {
		s.setLastError("No refresh token available")
		return Result{Err: "No refresh token available"}
	}

	s.beginOp()
	defer s.endOp()

	res, _, _ := s.refreshing.Do("refresh", func() (any, error) {
		return s.doRefresh(ctx, refreshToken), nil
	})
	return res.(Result)
}

func (s *SessionService) doRefresh(ctx context.Context, refreshToken string) Result {
	pair, err := s.identity.Refresh(ctx, refreshToken)
	if err != nil {
		s.logger.WarnContext(ctx, "token refresh failed; clearing session", "error", err)
		s.Logout(ctx)
		return Result{Err: failureText(err)}
	}

	s.mu.Lock()
	// Rotation: both tokens are replaced together.
	s.accessToken = pair.Access
	s.refreshToken = pair.Refresh
	s.lastErr = ""
	s.mu.Unlock()

	s.persist(ctx)
	return okResult()
}

// Logout tears the session down. The backend notification is best-effort;
// storage, cookie state and memory are cleared unconditionally, and the local
// cleanup always reports success.
func (s *SessionService) Logout(ctx context.Context) Result {
	s.beginOp()
	defer s.endOp()

	s.mu.Lock()
	accessToken := s.accessToken
	s.mu.Unlock()

	if accessToken != "" {
		if err := s.identity.Logout(ctx, accessToken); err != nil {
			s.logger.WarnContext(ctx, "backend logout notification failed", "error", err)
		}
	}

	if err := s.storage.Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear persisted session", "error", err)
	}

	s.mu.Lock()
	s.user = nil
	s.accessToken = ""
	s.refreshToken = ""
	s.state = domainsession.StateAnonymous
	s.lastErr = ""
	s.mu.Unlock()

	return okResult()
}

// RequestPasswordReset asks the backend to start a reset flow. Stateless with
// respect to the session.
func (s *SessionService) RequestPasswordReset(ctx context.Context, email string) Result {
	s.beginOp()
	defer s.endOp()

	if err := s.identity.RequestPasswordReset(ctx, email); err != nil {
		return s.fail(err)
	}
	s.setLastError("")
	return okResult()
}

// ConfirmPasswordReset completes a reset flow with the emailed token.
func (s *SessionService) ConfirmPasswordReset(ctx context.Context, email, token, newPassword string) Result {
	s.beginOp()
	defer s.endOp()

	if err := s.identity.ConfirmPasswordReset(ctx, ports.PasswordResetConfirm{
		Email:       email,
		Token:       token,
		NewPassword: newPassword,
	}); err != nil {
		return s.fail(err)
	}
	s.setLastError("")
	return okResult()
}

// ChangePassword changes the password of the authenticated user.
func (s *SessionService) ChangePassword(ctx context.Context, currentPassword, newPassword string) Result {
	s.beginOp()
	defer s.endOp()

	accessToken, ok := s.requireToken()
	if !ok {
		return Result{Err: "Not authenticated"}
	}
	if err := s.identity.ChangePassword(ctx, ports.PasswordChange{
		AccessToken:     accessToken,
		CurrentPassword: currentPassword,
		NewPassword:     newPassword,
	}); err != nil {
		return s.fail(err)
	}
	s.setLastError("")
	return okResult()
}

// ChangeEmail changes the account email. On success the local user record is
// updated optimistically, pending the user's external confirmation step, and
// re-persisted.
func (s *SessionService) ChangeEmail(ctx context.Context, newEmail, currentPassword string) Result {
	s.beginOp()
	defer s.endOp()

	accessToken, ok := s.requireToken()
	if !ok {
		return Result{Err: "Not authenticated"}
	}
	if err := s.identity.ChangeEmail(ctx, ports.EmailChange{
		AccessToken:     accessToken,
		NewEmail:        newEmail,
		CurrentPassword: currentPassword,
	}); err != nil {
		return s.fail(err)
	}

	s.mu.Lock()
	if s.user != nil {
		updated := *s.user
		updated.Email = newEmail
		s.user = &updated
	}
	s.lastErr = ""
	s.mu.Unlock()

	s.persist(ctx)
	return okResult()
}

// persist writes the current record to storage. Storage failures are logged,
// not surfaced: the in-memory session stays valid either way.
func (s *SessionService) persist(ctx context.Context) {
	s.mu.Lock()
	rec := domainsession.Record{
		AccessToken:  s.accessToken,
		RefreshToken: s.refreshToken,
	}
	if s.user != nil {
		rec.User = *s.user
	}
	s.mu.Unlock()

	if !rec.Valid() {
		return
	}
	if err := s.storage.Save(ctx, rec); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist session", "error", err)
	}
}

func (s *SessionService) requireToken() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.accessToken == "" {
		s.lastErr = "Not authenticated"
		return "", false
	}
	return s.accessToken, true
}

func (s *SessionService) fail(err error) Result {
	msg := failureText(err)
	s.setLastError(msg)
	return Result{Err: msg}
}

func (s *SessionService) setLastError(msg string) {
	s.mu.Lock()
	s.lastErr = msg
	s.mu.Unlock()
}

func (s *SessionService) beginOp() {
	s.mu.Lock()
	s.inflight++
	s.mu.Unlock()
}

func (s *SessionService) endOp() {
	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()
}

// failureText prefers the bare server-provided detail over the decorated
// message, so "Invalid credentials" surfaces as-is.
func failureText(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return err.Error()
}
