package model

// Package model holds the clinic resource shapes exchanged with the backend.
// Fields mirror the backend serializers; read-only fields are filled by the
// server and left empty on create/update payloads.

// AppointmentStatus is the backend's appointment state enum.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "Pending"
	AppointmentConfirmed AppointmentStatus = "Confirmed"
	AppointmentCompleted AppointmentStatus = "Completed"
	AppointmentCancelled AppointmentStatus = "Cancelled"
)

// InvoiceStatus is the backend's invoice state enum.
type InvoiceStatus string

const (
	InvoicePaid   InvoiceStatus = "Paid"
	InvoiceUnpaid InvoiceStatus = "Unpaid"
)

// Patient is a clinic patient record.
type Patient struct {
	ID             string `json:"id,omitempty"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	BirthDate      string `json:"birth_date,omitempty"`
	Phone          string `json:"phone"`
	Email          string `json:"email,omitempty"`
	Address        string `json:"address,omitempty"`
	MedicalHistory string `json:"medical_history,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// Appointment is a scheduled patient visit. Date is "2006-01-02", Time "15:04".
type Appointment struct {
	ID          string            `json:"id,omitempty"`
	PatientID   string            `json:"patient_id"`
	PatientName string            `json:"patient_name,omitempty"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	Status      AppointmentStatus `json:"status,omitempty"`
	Reason      string            `json:"reason"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   string            `json:"created_at,omitempty"`
	UpdatedAt   string            `json:"updated_at,omitempty"`
}

// Treatment is a performed procedure with its cost.
type Treatment struct {
	ID            string `json:"id,omitempty"`
	PatientID     string `json:"patient_id"`
	PatientName   string `json:"patient_name,omitempty"`
	AppointmentID string `json:"appointment_id,omitempty"`
	Description   string `json:"description"`
	Cost          string `json:"cost"`
	Date          string `json:"date"`
	CreatedAt     string `json:"created_at,omitempty"`
	UpdatedAt     string `json:"updated_at,omitempty"`
}

// Invoice bills a treatment. Amount is a decimal string, matching the backend.
type Invoice struct {
	ID                   string        `json:"id,omitempty"`
	PatientID            string        `json:"patient_id"`
	PatientName          string        `json:"patient_name,omitempty"`
	TreatmentID          string        `json:"treatment_id"`
	TreatmentDescription string        `json:"treatment_description,omitempty"`
	Amount               string        `json:"amount"`
	Status               InvoiceStatus `json:"status,omitempty"`
	IssuedAt             string        `json:"issued_at,omitempty"`
	UpdatedAt            string        `json:"updated_at,omitempty"`
}

// InventoryItem is a stocked supply. Status is derived server-side from the
// quantity and never sent on writes.
type InventoryItem struct {
	ID        string `json:"id,omitempty"`
	Item      string `json:"item"`
	Quantity  int    `json:"quantity"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Xray is a patient scan image. SignedURL is a short-lived download link
// minted by the backend on reads.
type Xray struct {
	ID          string `json:"id,omitempty"`
	PatientID   string `json:"patient_id"`
	ImageURL    string `json:"image_url,omitempty"`
	ImageName   string `json:"image_name,omitempty"`
	ImageType   string `json:"image_type,omitempty"`
	Description string `json:"description,omitempty"`
	DateTaken   string `json:"date_taken,omitempty"`
	SignedURL   string `json:"signed_url,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}
