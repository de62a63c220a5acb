package devbackend

// Package devbackend is an in-memory stand-in for the DentNotion REST backend,
// used for local development and gateway tests. It speaks the same wire
// dialect: trailing-slash resource paths, auth responses wrapped in a "data"
// envelope, DRF-style error payloads, and list responses that may be a bare
// array or a paginated envelope.

import (
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/dentnotion/dentnotion/internal/domain/model"
)

// Options configures the dev backend.
type Options struct {
	// JWTSecret signs access tokens. Required.
	JWTSecret []byte
	// AccessTTL bounds access token life. Defaults to 15 minutes.
	AccessTTL time.Duration
	// Paginated switches list responses from a bare JSON array to the
	// {"count", "results"} envelope. Both shapes occur in the wild; the
	// toggle lets tests exercise each.
	Paginated bool
	Logger    *slog.Logger
}

// Server holds the in-memory state behind the dev backend routes.
type Server struct {
	logger    *slog.Logger
	secret    []byte
	accessTTL time.Duration
	paginated bool

	mu       sync.Mutex
	accounts map[string]*account // keyed by lowercased email
	// refresh maps live refresh tokens to account email. Single use: every
	// redemption deletes the old entry and mints a new one.
	refresh map[string]string
	// resetTokens maps lowercased email to the outstanding reset token.
	resetTokens map[string]string

	patients     *store[model.Patient]
	appointments *store[model.Appointment]
	treatments   *store[model.Treatment]
	invoices     *store[model.Invoice]
	inventory    *store[model.InventoryItem]
	xrays        *store[model.Xray]
}

// NewServer constructs a dev backend.
func NewServer(opts Options) (*Server, error) {
	if len(opts.JWTSecret) == 0 {
		return nil, errors.New("devbackend: JWT secret is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := opts.AccessTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Server{
		logger:      logger,
		secret:      opts.JWTSecret,
		accessTTL:   ttl,
		paginated:   opts.Paginated,
		accounts:    make(map[string]*account),
		refresh:     make(map[string]string),
		resetTokens: make(map[string]string),

		patients:     newStore(func(p *model.Patient, id string) { p.ID = id }),
		appointments: newStore(func(a *model.Appointment, id string) { a.ID = id }),
		treatments:   newStore(func(t *model.Treatment, id string) { t.ID = id }),
		invoices:     newStore(func(i *model.Invoice, id string) { i.ID = id }),
		inventory:    newStore(func(i *model.InventoryItem, id string) { i.ID = id }),
		xrays:        newStore(func(x *model.Xray, id string) { x.ID = id }),
	}, nil
}

// Router mounts every backend route under /api, mirroring the real backend's
// path layout.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.StripSlashes)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)
		r.Post("/auth/password_reset", s.handlePasswordReset)
		r.Post("/auth/password_reset_confirm", s.handlePasswordResetConfirm)

		r.Group(func(r chi.Router) {
			r.Use(s.requireBearer)
			r.Post("/auth/logout", s.handleLogout)
			r.Post("/auth/change_password", s.handleChangePassword)
			r.Post("/auth/change_email", s.handleChangeEmail)

			mountResource(r, s, "/patients", resourceDef[model.Patient]{
				store: s.patients, validate: s.validatePatient, prepare: s.preparePatient,
			})
			mountResource(r, s, "/appointments", resourceDef[model.Appointment]{
				store: s.appointments, validate: s.validateAppointment, prepare: s.prepareAppointment,
			})
			mountResource(r, s, "/treatments", resourceDef[model.Treatment]{
				store: s.treatments, validate: s.validateTreatment, prepare: s.prepareTreatment,
			})
			mountResource(r, s, "/invoices", resourceDef[model.Invoice]{
				store: s.invoices, validate: s.validateInvoice, prepare: s.prepareInvoice,
			})
			mountResource(r, s, "/inventory", resourceDef[model.InventoryItem]{
				store: s.inventory, validate: s.validateInventoryItem, prepare: s.prepareInventoryItem,
			})

			r.Get("/xrays", s.handleXrayList)
			r.Post("/xrays", s.handleXrayUpload)
			r.Get("/xrays/{id}", s.handleXrayGet)
			r.Delete("/xrays/{id}", s.handleXrayDelete)
		})
	})

	return r
}
