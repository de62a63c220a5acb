package backend

// Package backend holds thin typed clients for the DentNotion REST backend.
// Every client delegates transport, timeout and failure normalization to
// internal/api; the only knowledge here is endpoint paths and payload shapes.

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dentnotion/dentnotion/internal/api"
	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
	"github.com/dentnotion/dentnotion/internal/ports"
)

// Identity implements ports.IdentityAPI against the /auth/ endpoints. It never
// uses the client's ambient token source; bearer credentials are passed
// explicitly by the session service, which owns them.
type Identity struct {
	c *api.Client
}

// NewIdentity builds the identity client.
func NewIdentity(c *api.Client) *Identity { return &Identity{c: c} }

var _ ports.IdentityAPI = (*Identity)(nil)

// authPayload is the success envelope the auth endpoints wrap their data in.
type authPayload struct {
	Data struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		UserID       string `json:"user_id"`
		Email        string `json:"email"`
		FullName     string `json:"full_name"`
		Role         string `json:"role"`
	} `json:"data"`
}

func (i *Identity) Signup(ctx context.Context, creds ports.Credentials) (domainsession.User, ports.TokenPair, error) {
	return i.credentialCall(ctx, credentialCall{
		path:      "/auth/signup/",
		errPrefix: "Signup failed",
		body: map[string]string{
			"email":     creds.Email,
			"password":  creds.Password,
			"full_name": creds.FullName,
		},
	})
}

func (i *Identity) Login(ctx context.Context, creds ports.Credentials) (domainsession.User, ports.TokenPair, error) {
	return i.credentialCall(ctx, credentialCall{
		path:      "/auth/login/",
		errPrefix: "Login failed",
		body: map[string]string{
			"email":    creds.Email,
			"password": creds.Password,
		},
	})
}

type credentialCall struct {
	path      string
	errPrefix string
	body      map[string]string
}

func (i *Identity) credentialCall(ctx context.Context, call credentialCall) (domainsession.User, ports.TokenPair, error) {
	raw, err := i.c.Do(ctx, api.Request{
		Method:    http.MethodPost,
		Path:      call.path,
		Body:      call.body,
		ErrPrefix: call.errPrefix,
		NoAuth:    true,
	})
	if err != nil {
		return domainsession.User{}, ports.TokenPair{}, err
	}

	var payload authPayload
	if err := api.DecodeInto(raw, &payload); err != nil {
		return domainsession.User{}, ports.TokenPair{}, err
	}
	user := domainsession.User{
		ID:       payload.Data.UserID,
		Email:    payload.Data.Email,
		FullName: payload.Data.FullName,
		Role:     domainsession.Role(payload.Data.Role),
	}
	pair := ports.TokenPair{Access: payload.Data.AccessToken, Refresh: payload.Data.RefreshToken}
	return user, pair, nil
}

func (i *Identity) Refresh(ctx context.Context, refreshToken string) (ports.TokenPair, error) {
	raw, err := i.c.Do(ctx, api.Request{
		Method:    http.MethodPost,
		Path:      "/auth/refresh/",
		Body:      map[string]string{"refresh_token": refreshToken},
		ErrPrefix: "Token refresh failed",
		NoAuth:    true,
	})
	if err != nil {
		return ports.TokenPair{}, err
	}
	var payload authPayload
	if err := api.DecodeInto(raw, &payload); err != nil {
		return ports.TokenPair{}, err
	}
	return ports.TokenPair{Access: payload.Data.AccessToken, Refresh: payload.Data.RefreshToken}, nil
}

func (i *Identity) Logout(ctx context.Context, accessToken string) error {
	_, err := i.c.Do(ctx, api.Request{
		Method:    http.MethodPost,
		Path:      "/auth/logout/",
		Body:      json.RawMessage(`{}`),
		ErrPrefix: "Logout failed",
		Bearer:    accessToken,
	})
	return err
}

func (i *Identity) RequestPasswordReset(ctx context.Context, email string) error {
	_, err := i.c.Do(ctx, api.Request{
		Method:    http.MethodPost,
		Path:      "/auth/password_reset/",
		Body:      map[string]string{"email": email},
		ErrPrefix: "Password reset request failed",
		NoAuth:    true,
	})
	return err
}

func (i *Identity) ConfirmPasswordReset(ctx context.Context, in ports.PasswordResetConfirm) error {
	_, err := i.c.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/password_reset_confirm/",
		Body: map[string]string{
			"email":        in.Email,
			"token":        in.Token,
			"new_password": in.NewPassword,
		},
		ErrPrefix: "Password reset failed",
		NoAuth:    true,
	})
	return err
}

func (i *Identity) ChangePassword(ctx context.Context, in ports.PasswordChange) error {
	_, err := i.c.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/change_password/",
		Body: map[string]string{
			"current_password": in.CurrentPassword,
			"new_password":     in.NewPassword,
		},
		ErrPrefix: "Failed to change password",
		Bearer:    in.AccessToken,
	})
	return err
}

func (i *Identity) ChangeEmail(ctx context.Context, in ports.EmailChange) error {
	_, err := i.c.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   "/auth/change_email/",
		Body: map[string]string{
			"new_email":        in.NewEmail,
			"current_password": in.CurrentPassword,
		},
		ErrPrefix: "Failed to change email",
		Bearer:    in.AccessToken,
	})
	return err
}
