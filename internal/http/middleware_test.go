package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
	"github.com/dentnotion/dentnotion/internal/testutil"
)

// fakeGuardStore is a fixed-state GuardStore for middleware tests.
type fakeGuardStore struct {
	state   domainsession.State
	loading bool
	user    *domainsession.User
}

func (f fakeGuardStore) State() domainsession.State { return f.state }
func (f fakeGuardStore) Loading() bool              { return f.loading }
func (f fakeGuardStore) IsAuthenticated() bool      { return f.user != nil }
func (f fakeGuardStore) CurrentUser() (domainsession.User, bool) {
	if f.user == nil {
		return domainsession.User{}, false
	}
	return *f.user, true
}

func authedStore(role domainsession.Role) fakeGuardStore {
	return fakeGuardStore{
		state: domainsession.StateAuthenticated,
		user:  &domainsession.User{ID: "user-1", Email: "dentist@example.com", Role: role},
	}
}

func anonymousStore() fakeGuardStore {
	return fakeGuardStore{state: domainsession.StateAnonymous}
}

func okHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		user, ok := UserFromContext(r.Context())
		require.True(t, ok, "guarded handlers must see the user in context")
		assert.Equal(t, "user-1", user.ID)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("loading session gets a neutral response, never a redirect", func(t *testing.T) {
		store := fakeGuardStore{state: domainsession.StateUnknown, loading: true}
		called := false
		h := RequireAuth(store)(okHandler(t, &called))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("Location"))
		assert.Contains(t, rec.Body.String(), "Loading")
		assert.False(t, called)
	})

	t.Run("loading AJAX gets a pollable marker", func(t *testing.T) {
		store := fakeGuardStore{state: domainsession.StateUnknown, loading: true}
		called := false
		h := RequireAuth(store)(okHandler(t, &called))

		req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"loading"}`, rec.Body.String())
		assert.False(t, called)
	})

	t.Run("anonymous browser is redirected to login with return path", func(t *testing.T) {
		called := false
		h := RequireAuth(anonymousStore())(okHandler(t, &called))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/auth/login?redirect_uri=%2Fdashboard", rec.Header().Get("Location"))
		assert.False(t, called)
	})

	t.Run("anonymous AJAX gets 401, not a redirect", func(t *testing.T) {
		called := false
		h := RequireAuth(anonymousStore())(okHandler(t, &called))

		req := httptest.NewRequest(http.MethodGet, "/api/patients", nil)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "authentication_required")
		assert.False(t, called)
	})

	t.Run("authenticated request passes through with user in context", func(t *testing.T) {
		called := false
		h := RequireAuth(authedStore(domainsession.RoleUser))(okHandler(t, &called))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
	})
}

func TestRequireRole(t *testing.T) {
	t.Run("matching role passes", func(t *testing.T) {
		called := false
		h := RequireRole(authedStore(domainsession.RoleUser), domainsession.RoleUser)(okHandler(t, &called))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inventory", nil))
		assert.True(t, called)
	})

	t.Run("admin passes any required role", func(t *testing.T) {
		called := false
		h := RequireRole(authedStore(domainsession.RoleAdmin), domainsession.RoleUser)(okHandler(t, &called))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/inventory", nil))
		assert.True(t, called)
	})

	t.Run("wrong role browser request is sent to unauthorized page", func(t *testing.T) {
		called := false
		h := RequireRole(authedStore(domainsession.RoleUser), domainsession.RoleAdmin)(okHandler(t, &called))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventory", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, unauthorizedPath, rec.Header().Get("Location"))
		assert.False(t, called)
	})

	t.Run("wrong role AJAX gets 403", func(t *testing.T) {
		called := false
		h := RequireRole(authedStore(domainsession.RoleUser), domainsession.RoleAdmin)(okHandler(t, &called))

		req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, rec.Body.String(), "insufficient_permissions")
		assert.False(t, called)
	})

	t.Run("anonymous requests hit the auth branch before the role check", func(t *testing.T) {
		called := false
		h := RequireRole(anonymousStore(), domainsession.RoleAdmin)(okHandler(t, &called))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/inventory", nil))

		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Contains(t, rec.Header().Get("Location"), loginPath)
	})
}

func TestSafeRedirectPath(t *testing.T) {
	assert.Equal(t, "/patients", safeRedirectPath("/patients"))
	assert.Equal(t, "/", safeRedirectPath("https://evil.example/steal"))
	assert.Equal(t, "/", safeRedirectPath("//evil.example/steal"))
	assert.Equal(t, "/", safeRedirectPath("relative"))
}

func TestLoggingPreservesStatus(t *testing.T) {
	h := Logging(testutil.SilentLogger())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestRecoverTurnsPanicInto500(t *testing.T) {
	h := Recover(testutil.SilentLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
