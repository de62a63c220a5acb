package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentnotion/dentnotion/internal/api"
	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
	"github.com/dentnotion/dentnotion/internal/ports"
	"github.com/dentnotion/dentnotion/internal/testutil"
)

func newTestIdentity(t *testing.T, handler http.Handler) *Identity {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := api.NewClient(api.Options{BaseURL: srv.URL, Logger: testutil.SilentLogger()})
	require.NoError(t, err)
	return NewIdentity(c)
}

func authSuccessBody() string {
	return `{"data":{"access_token":"acc-1","refresh_token":"ref-1","user_id":"user-1","email":"dentist@example.com","full_name":"Dana Dentist","role":"admin"}}`
}

func TestLoginDecodesAuthEnvelope(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	identity := newTestIdentity(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Empty(t, r.Header.Get("Authorization"), "login is anonymous")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(authSuccessBody()))
	}))

	user, pair, err := identity.Login(context.Background(), ports.Credentials{Email: "dentist@example.com", Password: "hunter22"})
	require.NoError(t, err)

	assert.Equal(t, "/auth/login/", gotPath)
	assert.Equal(t, map[string]string{"email": "dentist@example.com", "password": "hunter22"}, gotBody)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, domainsession.RoleAdmin, user.Role)
	assert.Equal(t, ports.TokenPair{Access: "acc-1", Refresh: "ref-1"}, pair)
}

func TestLoginFailureCarriesDetail(t *testing.T) {
	identity := newTestIdentity(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Invalid credentials","code":"invalid_credentials"}`))
	}))

	_, _, err := identity.Login(context.Background(), ports.Credentials{Email: "a@b.c", Password: "nope"})
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Invalid credentials", apiErr.Detail)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Contains(t, apiErr.Message, "Login failed")
}

func TestSignupSendsFullName(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	identity := newTestIdentity(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(authSuccessBody()))
	}))

	user, _, err := identity.Signup(context.Background(), ports.Credentials{
		Email:    "new@example.com",
		Password: "hunter22",
		FullName: "New Dentist",
	})
	require.NoError(t, err)
	assert.Equal(t, "/auth/signup/", gotPath)
	assert.Equal(t, "New Dentist", gotBody["full_name"])
	assert.Equal(t, "dentist@example.com", user.Email)
}

func TestRefreshSendsStoredToken(t *testing.T) {
	var gotBody map[string]string
	identity := newTestIdentity(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/refresh/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"access_token":"acc-2","refresh_token":"ref-2"}}`))
	}))

	pair, err := identity.Refresh(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "ref-1", gotBody["refresh_token"])
	assert.Equal(t, ports.TokenPair{Access: "acc-2", Refresh: "ref-2"}, pair)
}

func TestLogoutSendsExplicitBearer(t *testing.T) {
	var gotAuth string
	identity := newTestIdentity(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/logout/", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"detail":"Logged out"}`))
	}))

	require.NoError(t, identity.Logout(context.Background(), "acc-1"))
	assert.Equal(t, "Bearer acc-1", gotAuth)
}

func TestPasswordResetEndpoints(t *testing.T) {
	var paths []string
	identity := newTestIdentity(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"detail":"ok"}`))
	}))

	require.NoError(t, identity.RequestPasswordReset(context.Background(), "dentist@example.com"))
	require.NoError(t, identity.ConfirmPasswordReset(context.Background(), ports.PasswordResetConfirm{
		Email:       "dentist@example.com",
		Token:       "tok-1",
		NewPassword: "newpass123",
	}))

	assert.Equal(t, []string{"/auth/password_reset/", "/auth/password_reset_confirm/"}, paths)
}

func TestChangePasswordAndEmailUseBearer(t *testing.T) {
	type seen struct {
		path string
		auth string
		body map[string]string
	}
	var calls []seen
	identity := newTestIdentity(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		calls = append(calls, seen{path: r.URL.Path, auth: r.Header.Get("Authorization"), body: body})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"detail":"ok"}`))
	}))

	require.NoError(t, identity.ChangePassword(context.Background(), ports.PasswordChange{
		AccessToken:     "acc-1",
		CurrentPassword: "old",
		NewPassword:     "new-password",
	}))
	require.NoError(t, identity.ChangeEmail(context.Background(), ports.EmailChange{
		AccessToken:     "acc-1",
		NewEmail:        "new@example.com",
		CurrentPassword: "old",
	}))

	require.Len(t, calls, 2)
	assert.Equal(t, "/auth/change_password/", calls[0].path)
	assert.Equal(t, "Bearer acc-1", calls[0].auth)
	assert.Equal(t, "new-password", calls[0].body["new_password"])
	assert.Equal(t, "/auth/change_email/", calls[1].path)
	assert.Equal(t, "Bearer acc-1", calls[1].auth)
	assert.Equal(t, "new@example.com", calls[1].body["new_email"])
}
