package httpx

import (
	"context"
	"errors"
	"net/http"

	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
	"github.com/dentnotion/dentnotion/internal/service"
)

// SessionStore is the full session surface the HTTP layer drives. It extends
// the guard's read-only view with every identity-mutating operation.
type SessionStore interface {
	GuardStore
	LastError() string
	Signup(ctx context.Context, email, password, fullName string) service.Result
	Login(ctx context.Context, email, password string) service.Result
	Logout(ctx context.Context) service.Result
	Refresh(ctx context.Context) service.Result
	RequestPasswordReset(ctx context.Context, email string) service.Result
	ConfirmPasswordReset(ctx context.Context, email, token, newPassword string) service.Result
	ChangePassword(ctx context.Context, currentPassword, newPassword string) service.Result
	ChangeEmail(ctx context.Context, newEmail, currentPassword string) service.Result
	Cookie(secure bool) *http.Cookie
}

// SessionHandlersOptions groups dependencies for SessionHandlers.
type SessionHandlersOptions struct {
	Store SessionStore
	// SecureCookies marks the guard cookie Secure. Off for plain-HTTP dev.
	SecureCookies bool
}

// SessionHandlers exposes the session lifecycle over HTTP. Every mutating
// endpoint re-derives the guard cookie from the store afterwards, so the
// cookie can never disagree with the session it mirrors.
type SessionHandlers struct {
	store  SessionStore
	secure bool
}

// NewSessionHandlers constructs SessionHandlers.
func NewSessionHandlers(opts SessionHandlersOptions) (*SessionHandlers, error) {
	if opts.Store == nil {
		return nil, errors.New("httpx: session store is required")
	}
	return &SessionHandlers{store: opts.Store, secure: opts.SecureCookies}, nil
}

type sessionStatus struct {
	State         string              `json:"state"`
	Loading       bool                `json:"loading"`
	Authenticated bool                `json:"authenticated"`
	User          *domainsession.User `json:"user,omitempty"`
	LastError     string              `json:"last_error,omitempty"`
}

// Status reports the current session state without touching it.
func (h *SessionHandlers) Status(w http.ResponseWriter, r *http.Request) {
	st := sessionStatus{
		State:         h.store.State().String(),
		Loading:       h.store.Loading(),
		Authenticated: h.store.IsAuthenticated(),
		LastError:     h.store.LastError(),
	}
	if user, ok := h.store.CurrentUser(); ok {
		st.User = &user
	}
	WriteJSON(w, http.StatusOK, st)
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Signup registers a new account and establishes the session on success.
func (h *SessionHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res := h.store.Signup(r.Context(), req.Email, req.Password, req.FullName)
	h.finishMutation(w, res, http.StatusCreated, http.StatusUnauthorized)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email and password.
func (h *SessionHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res := h.store.Login(r.Context(), req.Email, req.Password)
	h.finishMutation(w, res, http.StatusOK, http.StatusUnauthorized)
}

// Logout tears the session down. Local cleanup always succeeds, so this
// endpoint never fails.
func (h *SessionHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	res := h.store.Logout(r.Context())
	h.finishMutation(w, res, http.StatusOK, http.StatusInternalServerError)
}

// Refresh rotates the token pair.
func (h *SessionHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	res := h.store.Refresh(r.Context())
	h.finishMutation(w, res, http.StatusOK, http.StatusUnauthorized)
}

type passwordResetRequest struct {
	Email string `json:"email"`
}

// RequestPasswordReset starts a password reset flow.
func (h *SessionHandlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res := h.store.RequestPasswordReset(r.Context(), req.Email)
	h.writeResult(w, res, http.StatusOK, http.StatusBadRequest)
}

type passwordResetConfirmRequest struct {
	Email       string `json:"email"`
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// ConfirmPasswordReset completes a reset flow with the emailed token.
func (h *SessionHandlers) ConfirmPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirmRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res := h.store.ConfirmPasswordReset(r.Context(), req.Email, req.Token, req.NewPassword)
	h.writeResult(w, res, http.StatusOK, http.StatusBadRequest)
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// ChangePassword changes the password of the authenticated user.
func (h *SessionHandlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordChangeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res := h.store.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword)
	h.writeResult(w, res, http.StatusOK, http.StatusBadRequest)
}

type emailChangeRequest struct {
	NewEmail        string `json:"new_email"`
	CurrentPassword string `json:"current_password"`
}

// ChangeEmail changes the account email; the session record is updated too,
// so the cookie and persisted user follow.
func (h *SessionHandlers) ChangeEmail(w http.ResponseWriter, r *http.Request) {
	var req emailChangeRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	res := h.store.ChangeEmail(r.Context(), req.NewEmail, req.CurrentPassword)
	h.finishMutation(w, res, http.StatusOK, http.StatusBadRequest)
}

// finishMutation re-derives the guard cookie from the store before answering,
// then writes the result. The cookie is set on success and failure alike: a
// failed login must clear a stale cookie just as a successful one sets it.
func (h *SessionHandlers) finishMutation(w http.ResponseWriter, res service.Result, okCode, failCode int) {
	http.SetCookie(w, h.store.Cookie(h.secure))
	h.writeResult(w, res, okCode, failCode)
}

func (h *SessionHandlers) writeResult(w http.ResponseWriter, res service.Result, okCode, failCode int) {
	if !res.OK {
		WriteError(w, ErrorParams{Code: failCode, ErrCode: "session_operation_failed", Err: errors.New(res.Err)})
		return
	}
	st := sessionStatus{
		State:         h.store.State().String(),
		Loading:       h.store.Loading(),
		Authenticated: h.store.IsAuthenticated(),
	}
	if user, ok := h.store.CurrentUser(); ok {
		st.User = &user
	}
	WriteJSON(w, okCode, st)
}
