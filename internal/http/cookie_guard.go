package httpx

import (
	"net/http"
	"strings"
)

// CookieGuardOptions configures the pre-mount cookie guard.
type CookieGuardOptions struct {
	// CookieName is the guard cookie holding the access token.
	CookieName string
	// PublicPaths are path prefixes reachable without a session.
	// Defaults to the auth entry points and the health endpoint.
	PublicPaths []string
}

var defaultPublicPaths = []string{"/auth/login", "/auth/signup", "/auth/forgot-password", "/healthz"}

// CookieGuard is the fast-path routing guard that runs before any session
// lookup: it only inspects the guard cookie's presence, exactly like the
// original pre-mount middleware. It steers authenticated browsers away from
// the auth pages, anonymous browsers away from protected pages, and resolves
// "/" to the dashboard or the login page. The full session check still happens
// in RequireAuth behind it; this layer only saves a round trip.
func CookieGuard(opts CookieGuardOptions) func(http.Handler) http.Handler {
	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = "accessToken"
	}
	public := opts.PublicPaths
	if public == nil {
		public = defaultPublicPaths
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			// Only page navigations are steered. API and auth calls answer in
			// JSON and are gated by RequireAuth behind this layer.
			if r.Method != http.MethodGet || strings.HasPrefix(path, "/api/") || path == "/healthz" || isAJAX(r) {
				next.ServeHTTP(w, r)
				return
			}
			hasToken := false
			if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
				hasToken = true
			}

			if hasToken && strings.HasPrefix(path, "/auth/") {
				http.Redirect(w, r, dashboardPath, http.StatusFound)
				return
			}

			if path == "/" {
				if hasToken {
					http.Redirect(w, r, dashboardPath, http.StatusFound)
				} else {
					http.Redirect(w, r, loginPath, http.StatusFound)
				}
				return
			}

			if !hasToken && !isPublicPath(path, public) {
				http.Redirect(w, r, loginPath, http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func isPublicPath(path string, public []string) bool {
	for _, p := range public {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
