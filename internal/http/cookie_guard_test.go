package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func guardedRequest(method, path string, withCookie bool) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if withCookie {
		req.AddCookie(&http.Cookie{Name: "accessToken", Value: "acc-1"})
	}
	return req
}

func runGuard(req *http.Request) (*httptest.ResponseRecorder, bool) {
	passed := false
	h := CookieGuard(CookieGuardOptions{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		passed = true
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec, passed
}

func TestCookieGuardSteering(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		withCookie   bool
		wantRedirect string
	}{
		{"anonymous root goes to login", "/", false, loginPath},
		{"authed root goes to dashboard", "/", true, dashboardPath},
		{"anonymous protected page goes to login", "/dashboard", false, loginPath},
		{"authed protected page passes", "/dashboard", true, ""},
		{"anonymous login page passes", "/auth/login", false, ""},
		{"anonymous signup page passes", "/auth/signup", false, ""},
		{"anonymous forgot-password passes", "/auth/forgot-password", false, ""},
		{"authed auth page bounces to dashboard", "/auth/login", true, dashboardPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, passed := runGuard(guardedRequest(http.MethodGet, tt.path, tt.withCookie))
			if tt.wantRedirect == "" {
				assert.True(t, passed)
				assert.Equal(t, http.StatusOK, rec.Code)
				return
			}
			assert.False(t, passed)
			assert.Equal(t, http.StatusFound, rec.Code)
			assert.Equal(t, tt.wantRedirect, rec.Header().Get("Location"))
		})
	}
}

func TestCookieGuardSkipsNonNavigations(t *testing.T) {
	t.Run("API calls pass untouched", func(t *testing.T) {
		_, passed := runGuard(guardedRequest(http.MethodGet, "/api/patients", false))
		assert.True(t, passed, "API calls are gated by RequireAuth, not the cookie guard")
	})

	t.Run("non-GET requests pass untouched", func(t *testing.T) {
		_, passed := runGuard(guardedRequest(http.MethodPost, "/auth/login", false))
		assert.True(t, passed)
	})

	t.Run("health checks pass untouched", func(t *testing.T) {
		_, passed := runGuard(guardedRequest(http.MethodGet, "/healthz", false))
		assert.True(t, passed)
	})

	t.Run("AJAX requests pass untouched", func(t *testing.T) {
		req := guardedRequest(http.MethodGet, "/dashboard", false)
		req.Header.Set("Accept", "application/json")
		_, passed := runGuard(req)
		assert.True(t, passed)
	})
}

func TestCookieGuardIgnoresEmptyCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "accessToken", Value: ""})

	rec, passed := runGuard(req)
	assert.False(t, passed)
	assert.Equal(t, loginPath, rec.Header().Get("Location"))
}

func TestCookieGuardCustomPublicPaths(t *testing.T) {
	h := CookieGuard(CookieGuardOptions{PublicPaths: []string{"/docs"}})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, guardedRequest(http.MethodGet, "/docs/getting-started", false))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, guardedRequest(http.MethodGet, "/auth/login", false))
	assert.Equal(t, http.StatusFound, rec.Code, "overriding public paths replaces the defaults")
}
