package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strings"
	"time"

	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
)

const (
	loginPath        = "/auth/login"
	unauthorizedPath = "/unauthorized"
	dashboardPath    = "/dashboard"
)

// GuardStore is the read-only view of the session store the route guard
// consults. The guard holds no state of its own.
type GuardStore interface {
	State() domainsession.State
	Loading() bool
	IsAuthenticated() bool
	CurrentUser() (domainsession.User, bool)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth gates a handler behind an authenticated session. While the
// session is still unknown/loading it answers with a neutral loading response,
// never a redirect. Once resolved, anonymous requests are redirected to the
// login entry point (401 for AJAX) and authenticated requests pass through
// with the user in context.
func RequireAuth(store GuardStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := resolveUser(store, w, r)
			if !ok {
				return
			}
			next.ServeHTTP(w, r.WithContext(SetUserInContext(r.Context(), user)))
		})
	}
}

// RequireRole is RequireAuth plus a role check. Admin always passes; a user
// with the wrong role is sent to the unauthorized destination (403 for AJAX).
func RequireRole(store GuardStore, required domainsession.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := resolveUser(store, w, r)
			if !ok {
				return
			}
			if !user.Role.Allows(required) {
				if isAJAX(r) {
					WriteError(w, ErrorParams{
						Code:    http.StatusForbidden,
						ErrCode: "insufficient_permissions",
						Err:     errors.New("insufficient permissions"),
					})
					return
				}
				http.Redirect(w, r, unauthorizedPath, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetUserInContext(r.Context(), user)))
		})
	}
}

// resolveUser applies the loading/anonymous branches of the guard and reports
// whether the request may proceed. When it returns false the response has
// already been written.
func resolveUser(store GuardStore, w http.ResponseWriter, r *http.Request) (domainsession.User, bool) {
	if store.State() == domainsession.StateUnknown || store.Loading() {
		writeLoading(w, r)
		return domainsession.User{}, false
	}

	if !store.IsAuthenticated() {
		if isAJAX(r) {
			WriteError(w, ErrorParams{
				Code:    http.StatusUnauthorized,
				ErrCode: "authentication_required",
				Err:     errors.New("authentication required"),
			})
			return domainsession.User{}, false
		}
		http.Redirect(w, r, loginRedirect(r), http.StatusFound)
		return domainsession.User{}, false
	}

	user, ok := store.CurrentUser()
	if !ok {
		// IsAuthenticated and CurrentUser disagree only if the store is broken.
		WriteError(w, ErrorParams{
			Code:    http.StatusInternalServerError,
			ErrCode: "session_inconsistent",
			Err:     errors.New("session state inconsistent"),
		})
		return domainsession.User{}, false
	}
	return user, true
}

// writeLoading renders the neutral loading state: no redirect, no protected
// content. Browsers get a self-refreshing placeholder, AJAX callers a marker
// payload they can poll on.
func writeLoading(w http.ResponseWriter, r *http.Request) {
	if isAJAX(r) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "loading"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<!doctype html><meta http-equiv="refresh" content="1"><title>Loading</title><p>Loading...</p>`))
}

func loginRedirect(r *http.Request) string {
	u := url.URL{Path: loginPath}
	q := url.Values{}
	q.Set("redirect_uri", safeRedirectPath(r.URL.Path))
	u.RawQuery = q.Encode()
	return u.String()
}

// safeRedirectPath restricts post-login redirects to relative paths.
func safeRedirectPath(p string) string {
	u, err := url.Parse(p)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return u.Path
}

func isAJAX(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}
