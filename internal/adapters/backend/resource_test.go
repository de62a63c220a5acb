package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentnotion/dentnotion/internal/api"
	"github.com/dentnotion/dentnotion/internal/domain/model"
	"github.com/dentnotion/dentnotion/internal/testutil"
)

func newTestClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := api.NewClient(api.Options{BaseURL: srv.URL, Logger: testutil.SilentLogger()})
	require.NoError(t, err)
	return c
}

func TestPatientsListNormalizesBothShapes(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		patients := NewPatients(newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/patients/", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`[{"id":"p1","first_name":"Ada","last_name":"Lovelace","phone":"555-0101"}]`))
		})))

		list, err := patients.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, list.Count)
		require.Len(t, list.Results, 1)
		assert.Equal(t, "Ada", list.Results[0].FirstName)
	})

	t.Run("paginated envelope", func(t *testing.T) {
		patients := NewPatients(newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"count":57,"results":[{"id":"p1","first_name":"Ada","last_name":"Lovelace","phone":"555-0101"}]}`))
		})))

		list, err := patients.List(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 57, list.Count, "server total survives normalization")
		assert.Len(t, list.Results, 1)
	})
}

func TestResourceGetUpdateDeletePaths(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody []byte
	appointments := NewAppointments(newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		var raw json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&raw)
		gotBody = raw
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"a1","patient_id":"p1","date":"2026-03-14","time":"10:00","reason":"Checkup"}`))
	})))

	_, err := appointments.Get(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Equal(t, "/appointments/a1/", gotPath, "item paths keep the trailing slash")

	updated, err := appointments.Update(context.Background(), "a1", model.Appointment{
		PatientID: "p1", Date: "2026-03-14", Time: "10:00", Reason: "Checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/appointments/a1/", gotPath)
	assert.Contains(t, string(gotBody), `"patient_id":"p1"`)
	assert.Equal(t, "a1", updated.ID)

	require.NoError(t, appointments.Delete(context.Background(), "a1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/appointments/a1/", gotPath)
}

func TestResourceCreateDecodesServerFields(t *testing.T) {
	invoices := NewInvoices(newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/invoices/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"i1","patient_id":"p1","treatment_id":"t1","amount":"120.50","status":"Unpaid","issued_at":"2026-03-14T09:30:00Z"}`))
	})))

	created, err := invoices.Create(context.Background(), model.Invoice{
		PatientID: "p1", TreatmentID: "t1", Amount: "120.50",
	})
	require.NoError(t, err)
	assert.Equal(t, "i1", created.ID)
	assert.Equal(t, model.InvoiceUnpaid, created.Status)
	assert.NotEmpty(t, created.IssuedAt)
}

func TestResourceFailureMessageNamesTheResource(t *testing.T) {
	treatments := NewTreatments(newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found","code":"not_found"}`))
	})))

	_, err := treatments.Get(context.Background(), "missing")
	require.Error(t, err)

	var apiErr *api.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "Failed to fetch treatment")
	assert.Equal(t, "Not found", apiErr.Detail)
}

func TestXraysListForPatient(t *testing.T) {
	xrays := NewXrays(newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/xrays/", r.URL.Path)
		assert.Equal(t, "p1", r.URL.Query().Get("patient_id"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"x1","patient_id":"p1","image_name":"bitewing.png"}]`))
	})))

	list, err := xrays.ListForPatient(context.Background(), "p1")
	require.NoError(t, err)
	require.Len(t, list.Results, 1)
	assert.Equal(t, "x1", list.Results[0].ID)
}

func TestXraysUploadSendsMultipart(t *testing.T) {
	xrays := NewXrays(newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/xrays/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "p1", r.FormValue("patient_id"))
		assert.Equal(t, "Bitewing, upper right", r.FormValue("description"))
		assert.Equal(t, "2026-03-14", r.FormValue("date_taken"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "bitewing.png", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"x1","patient_id":"p1","image_name":"bitewing.png"}`))
	})))

	xray, err := xrays.Upload(context.Background(), UploadInput{
		PatientID:   "p1",
		FileName:    "bitewing.png",
		File:        strings.NewReader("fake png bytes"),
		Description: "Bitewing, upper right",
		DateTaken:   "2026-03-14",
	})
	require.NoError(t, err)
	assert.Equal(t, "x1", xray.ID)
}
