package httpx

import (
	"net/http"

	"github.com/dentnotion/dentnotion/internal/adapters/backend"
	"github.com/dentnotion/dentnotion/internal/domain/model"
	domainsession "github.com/dentnotion/dentnotion/internal/domain/session"
	"github.com/dentnotion/dentnotion/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Session      SessionStore
	Patients     *backend.Patients
	Appointments *backend.Appointments
	Treatments   *backend.Treatments
	Invoices     *backend.Invoices
	Inventory    *backend.Inventory
	Xrays        *backend.Xrays
	Dashboard    *service.DashboardService
	// SecureCookies marks the guard cookie Secure. Off for plain-HTTP dev.
	SecureCookies bool
}

// NewRouter wires handlers, guards and middleware into the gateway's HTTP
// surface. Session endpoints live under /auth, resource proxies under /api
// behind RequireAuth, and the cookie fast-path guard steers bare page
// navigations before any of them run.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	sessionHandlers, err := NewSessionHandlers(SessionHandlersOptions{
		Store:         services.Session,
		SecureCookies: services.SecureCookies,
	})
	if err != nil {
		panic("httpx: " + err.Error()) //nolint:forbidigo // Fail fast during server setup.
	}
	registerAuthRoutes(mux, sessionHandlers)

	requireAuth := RequireAuth(services.Session)
	adminOnly := RequireRole(services.Session, domainsession.RoleAdmin)

	registerResource(mux, "/api/patients", NewResourceHandlers[model.Patient](services.Patients), requireAuth)
	registerResource(mux, "/api/appointments", NewResourceHandlers[model.Appointment](services.Appointments), requireAuth)
	registerResource(mux, "/api/treatments", NewResourceHandlers[model.Treatment](services.Treatments), requireAuth)
	registerResource(mux, "/api/invoices", NewResourceHandlers[model.Invoice](services.Invoices), requireAuth)
	// Stock management is an admin concern; regular users only read the
	// clinical resources.
	registerResource(mux, "/api/inventory", NewResourceHandlers[model.InventoryItem](services.Inventory), adminOnly)
	registerXrayRoutes(mux, NewXrayHandlers(services.Xrays), requireAuth)

	if services.Dashboard != nil {
		dash := NewDashboardHandlers(services.Dashboard)
		mux.Handle("GET /api/dashboard", requireAuth(http.HandlerFunc(dash.Snapshot)))
	}

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	registerPageRoutes(mux, requireAuth)

	// Logging and Recover are applied by bootstrap around the whole handler.
	return CookieGuard(CookieGuardOptions{})(mux)
}

func registerAuthRoutes(mux *http.ServeMux, h *SessionHandlers) {
	mux.HandleFunc("GET /auth/status", h.Status)
	mux.HandleFunc("POST /auth/signup", h.Signup)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("POST /auth/refresh", h.Refresh)
	mux.HandleFunc("POST /auth/password-reset", h.RequestPasswordReset)
	mux.HandleFunc("POST /auth/password-reset/confirm", h.ConfirmPasswordReset)
	mux.HandleFunc("POST /auth/change-password", h.ChangePassword)
	mux.HandleFunc("POST /auth/change-email", h.ChangeEmail)
}

// registerResource mounts the conventional five operations plus bulk delete
// under one base path, all behind the given guard.
func registerResource[T any](mux *http.ServeMux, base string, h *ResourceHandlers[T], guard func(http.Handler) http.Handler) {
	if base == "" {
		panic("registerResource: base must not be empty") //nolint:forbidigo // Fail fast during server setup.
	}
	wrap := func(hf http.HandlerFunc) http.Handler { return guard(hf) }
	mux.Handle("GET "+base, wrap(h.List))
	mux.Handle("POST "+base, wrap(h.Create))
	mux.Handle("GET "+base+"/{id}", wrap(h.Get))
	mux.Handle("PUT "+base+"/{id}", wrap(h.Update))
	mux.Handle("DELETE "+base+"/{id}", wrap(h.Delete))
	mux.Handle("POST "+base+"/bulk-delete", wrap(h.BulkDelete))
}

func registerXrayRoutes(mux *http.ServeMux, h *XrayHandlers, guard func(http.Handler) http.Handler) {
	wrap := func(hf http.HandlerFunc) http.Handler { return guard(hf) }
	mux.Handle("GET /api/xrays", wrap(h.List))
	mux.Handle("POST /api/xrays", wrap(h.Upload))
	mux.Handle("GET /api/xrays/{id}", wrap(h.Get))
	mux.Handle("DELETE /api/xrays/{id}", wrap(h.Delete))
	mux.Handle("POST /api/xrays/bulk-delete", wrap(h.BulkDelete))
}

// registerPageRoutes mounts the minimal navigation targets the guards redirect
// to. The gateway renders no real UI; these exist so browser flows land on a
// response instead of a 404.
func registerPageRoutes(mux *http.ServeMux, requireAuth func(http.Handler) http.Handler) {
	mux.Handle("GET "+dashboardPath, requireAuth(pageHandler("Dashboard")))
	mux.Handle("GET "+loginPath, pageHandler("Sign in"))
	mux.Handle("GET /auth/signup", pageHandler("Create account"))
	mux.Handle("GET /auth/forgot-password", pageHandler("Reset password"))
	mux.Handle("GET "+unauthorizedPath, pageHandler("Unauthorized"))
}

func pageHandler(title string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<!doctype html><title>" + title + "</title><h1>" + title + "</h1>"))
	})
}
