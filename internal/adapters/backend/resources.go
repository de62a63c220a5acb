package backend

import (
	"github.com/dentnotion/dentnotion/internal/api"
	"github.com/dentnotion/dentnotion/internal/domain/model"
)

// Patients is the typed client for /patients/.
type Patients struct {
	resource[model.Patient]
}

func NewPatients(c *api.Client) *Patients {
	return &Patients{resource[model.Patient]{c: c, path: "/patients/", label: "patient"}}
}

// Appointments is the typed client for /appointments/.
type Appointments struct {
	resource[model.Appointment]
}

func NewAppointments(c *api.Client) *Appointments {
	return &Appointments{resource[model.Appointment]{c: c, path: "/appointments/", label: "appointment"}}
}

// Treatments is the typed client for /treatments/.
type Treatments struct {
	resource[model.Treatment]
}

func NewTreatments(c *api.Client) *Treatments {
	return &Treatments{resource[model.Treatment]{c: c, path: "/treatments/", label: "treatment"}}
}

// Invoices is the typed client for /invoices/.
type Invoices struct {
	resource[model.Invoice]
}

func NewInvoices(c *api.Client) *Invoices {
	return &Invoices{resource[model.Invoice]{c: c, path: "/invoices/", label: "invoice"}}
}

// Inventory is the typed client for /inventory/.
type Inventory struct {
	resource[model.InventoryItem]
}

func NewInventory(c *api.Client) *Inventory {
	return &Inventory{resource[model.InventoryItem]{c: c, path: "/inventory/", label: "inventory item"}}
}
