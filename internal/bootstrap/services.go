package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/dentnotion/dentnotion/config"
	"github.com/dentnotion/dentnotion/internal/adapters/backend"
	"github.com/dentnotion/dentnotion/internal/api"
	"github.com/dentnotion/dentnotion/internal/ports"
	"github.com/dentnotion/dentnotion/internal/service"
)

// ServiceContainer holds the wired services and resource clients.
type ServiceContainer struct {
	Session      *service.SessionService
	Patients     *backend.Patients
	Appointments *backend.Appointments
	Treatments   *backend.Treatments
	Invoices     *backend.Invoices
	Inventory    *backend.Inventory
	Xrays        *backend.Xrays
	Dashboard    *service.DashboardService
}

// ServicesConfig contains dependencies for BuildServices.
type ServicesConfig struct {
	Config  config.AppConfig
	Storage ports.SessionStorage
	Logger  *slog.Logger
}

// BuildServices wires the API clients and services. Two backend clients exist
// on purpose: the identity client carries no ambient credentials (the session
// service passes bearer tokens explicitly), while the resource client reads
// its bearer token from the session service on every call.
func BuildServices(cfg ServicesConfig) (ServiceContainer, error) {
	identityClient, err := api.NewClient(api.Options{
		BaseURL: cfg.Config.Backend.BaseURL,
		Timeout: cfg.Config.Backend.Timeout,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("identity client: %w", err)
	}

	session, err := service.NewSessionService(service.SessionOptions{
		API:        backend.NewIdentity(identityClient),
		Storage:    cfg.Storage,
		Logger:     cfg.Logger,
		CookieName: cfg.Config.Session.CookieName,
		CookieTTL:  cfg.Config.Session.CookieTTL,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("session service: %w", err)
	}

	resourceClient, err := api.NewClient(api.Options{
		BaseURL: cfg.Config.Backend.BaseURL,
		Timeout: cfg.Config.Backend.Timeout,
		Tokens:  session,
		Logger:  cfg.Logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("resource client: %w", err)
	}

	patients := backend.NewPatients(resourceClient)
	appointments := backend.NewAppointments(resourceClient)
	invoices := backend.NewInvoices(resourceClient)

	return ServiceContainer{
		Session:      session,
		Patients:     patients,
		Appointments: appointments,
		Treatments:   backend.NewTreatments(resourceClient),
		Invoices:     invoices,
		Inventory:    backend.NewInventory(resourceClient),
		Xrays:        backend.NewXrays(resourceClient),
		Dashboard: service.NewDashboardService(service.DashboardOptions{
			Patients:     patients,
			Appointments: appointments,
			Invoices:     invoices,
		}),
	}, nil
}
