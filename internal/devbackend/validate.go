package devbackend

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dentnotion/dentnotion/internal/domain/model"
)

// validator checks one string value and returns an error message if invalid.
type validator func(v string) string

func required(fieldName string, maxLen int) validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return fieldName + " is required."
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

func optional(fieldName string, maxLen int) validator {
	return func(v string) string {
		v = strings.TrimSpace(v)
		if v == "" {
			return ""
		}
		if utf8.RuneCountInString(v) > maxLen {
			return fmt.Sprintf("%s cannot exceed %d characters.", fieldName, maxLen)
		}
		return ""
	}
}

var decimalRe = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

func decimal(fieldName string) validator {
	return func(v string) string {
		if !decimalRe.MatchString(strings.TrimSpace(v)) {
			return fieldName + " must be a decimal amount."
		}
		return ""
	}
}

func dateField(fieldName string) validator {
	return func(v string) string {
		if _, err := time.Parse("2006-01-02", strings.TrimSpace(v)); err != nil {
			return fieldName + " must be a date in YYYY-MM-DD format."
		}
		return ""
	}
}

func timeField(fieldName string) validator {
	return func(v string) string {
		if _, err := time.Parse("15:04", strings.TrimSpace(v)); err != nil {
			return fieldName + " must be a time in HH:MM format."
		}
		return ""
	}
}

func oneOf(fieldName string, options []string) validator {
	return func(v string) string {
		if v == "" {
			return ""
		}
		for _, opt := range options {
			if v == opt {
				return ""
			}
		}
		return fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(options, ", "))
	}
}

// check runs validators against named fields and collects DRF-style errors.
func check(fe fieldErrors, field, value string, validators ...validator) {
	for _, v := range validators {
		if msg := v(value); msg != "" {
			fe.add(field, msg)
		}
	}
}

func (s *Server) validatePatient(p model.Patient) fieldErrors {
	fe := fieldErrors{}
	check(fe, "first_name", p.FirstName, required("First name", 100))
	check(fe, "last_name", p.LastName, required("Last name", 100))
	check(fe, "phone", p.Phone, required("Phone", 30))
	check(fe, "email", p.Email, optional("Email", 254))
	if p.BirthDate != "" {
		check(fe, "birth_date", p.BirthDate, dateField("Birth date"))
	}
	return fe
}

func (s *Server) validateAppointment(a model.Appointment) fieldErrors {
	fe := fieldErrors{}
	check(fe, "patient_id", a.PatientID, required("Patient", 64))
	check(fe, "date", a.Date, dateField("Date"))
	check(fe, "time", a.Time, timeField("Time"))
	check(fe, "reason", a.Reason, required("Reason", 500))
	check(fe, "status", string(a.Status), oneOf("Status", []string{
		string(model.AppointmentPending),
		string(model.AppointmentConfirmed),
		string(model.AppointmentCompleted),
		string(model.AppointmentCancelled),
	}))
	if a.PatientID != "" && !s.patientExists(a.PatientID) {
		fe.add("patient_id", "Unknown patient.")
	}
	return fe
}

func (s *Server) validateTreatment(t model.Treatment) fieldErrors {
	fe := fieldErrors{}
	check(fe, "patient_id", t.PatientID, required("Patient", 64))
	check(fe, "description", t.Description, required("Description", 500))
	check(fe, "cost", t.Cost, decimal("Cost"))
	check(fe, "date", t.Date, dateField("Date"))
	if t.PatientID != "" && !s.patientExists(t.PatientID) {
		fe.add("patient_id", "Unknown patient.")
	}
	return fe
}

func (s *Server) validateInvoice(i model.Invoice) fieldErrors {
	fe := fieldErrors{}
	check(fe, "patient_id", i.PatientID, required("Patient", 64))
	check(fe, "treatment_id", i.TreatmentID, required("Treatment", 64))
	check(fe, "amount", i.Amount, decimal("Amount"))
	check(fe, "status", string(i.Status), oneOf("Status", []string{
		string(model.InvoicePaid),
		string(model.InvoiceUnpaid),
	}))
	return fe
}

func (s *Server) validateInventoryItem(i model.InventoryItem) fieldErrors {
	fe := fieldErrors{}
	check(fe, "item", i.Item, required("Item", 200))
	if i.Quantity < 0 {
		fe.add("quantity", "Quantity cannot be negative.")
	}
	return fe
}

func (s *Server) patientExists(id string) bool {
	_, ok := s.patients.Get(id)
	return ok
}

func (s *Server) patientName(id string) string {
	p, ok := s.patients.Get(id)
	if !ok {
		return ""
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (s *Server) preparePatient(p *model.Patient, created bool) {
	if created {
		p.CreatedAt = nowStamp()
	}
	p.UpdatedAt = nowStamp()
}

func (s *Server) prepareAppointment(a *model.Appointment, created bool) {
	a.PatientName = s.patientName(a.PatientID)
	if a.Status == "" {
		a.Status = model.AppointmentPending
	}
	if created {
		a.CreatedAt = nowStamp()
	}
	a.UpdatedAt = nowStamp()
}

func (s *Server) prepareTreatment(t *model.Treatment, created bool) {
	t.PatientName = s.patientName(t.PatientID)
	if created {
		t.CreatedAt = nowStamp()
	}
	t.UpdatedAt = nowStamp()
}

func (s *Server) prepareInvoice(i *model.Invoice, created bool) {
	i.PatientName = s.patientName(i.PatientID)
	if t, ok := s.treatments.Get(i.TreatmentID); ok {
		i.TreatmentDescription = t.Description
	}
	if i.Status == "" {
		i.Status = model.InvoiceUnpaid
	}
	if created {
		i.IssuedAt = nowStamp()
	}
	i.UpdatedAt = nowStamp()
}

func (s *Server) prepareInventoryItem(i *model.InventoryItem, created bool) {
	// Stock status is derived, never client-set.
	switch {
	case i.Quantity == 0:
		i.Status = "Out of Stock"
	case i.Quantity <= 5:
		i.Status = "Low Stock"
	default:
		i.Status = "In Stock"
	}
	if created {
		i.CreatedAt = nowStamp()
	}
	i.UpdatedAt = nowStamp()
}
