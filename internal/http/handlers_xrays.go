package httpx

import (
	"context"
	"errors"
	"net/http"

	"github.com/dentnotion/dentnotion/internal/adapters/backend"
	"github.com/dentnotion/dentnotion/internal/api"
	"github.com/dentnotion/dentnotion/internal/domain/model"
)

// maxXrayUpload bounds the multipart memory footprint of one upload.
const maxXrayUpload = 32 << 20

// XrayClient extends the conventional resource client with the two X-ray
// specific operations.
type XrayClient interface {
	ResourceClient[model.Xray]
	ListForPatient(ctx context.Context, patientID string) (api.List[model.Xray], error)
	Upload(ctx context.Context, in backend.UploadInput) (model.Xray, error)
}

// XrayHandlers adds per-patient listing and multipart upload on top of the
// conventional resource handlers.
type XrayHandlers struct {
	ResourceHandlers[model.Xray]
	client XrayClient
}

// NewXrayHandlers constructs XrayHandlers.
func NewXrayHandlers(client XrayClient) *XrayHandlers {
	return &XrayHandlers{
		ResourceHandlers: ResourceHandlers[model.Xray]{client: client},
		client:           client,
	}
}

// List filters by patient when a patient_id query parameter is present,
// otherwise lists everything.
func (h *XrayHandlers) List(w http.ResponseWriter, r *http.Request) {
	patientID := r.URL.Query().Get("patient_id")
	if patientID == "" {
		h.ResourceHandlers.List(w, r)
		return
	}
	list, err := h.client.ListForPatient(r.Context(), patientID)
	if err != nil {
		WriteAPIError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, list)
}

// Upload accepts a multipart form with the image under "file" and forwards it
// to the backend.
func (h *XrayHandlers) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxXrayUpload); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_multipart", Err: err})
		return
	}

	patientID := r.FormValue("patient_id")
	if patientID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_patient_id", Err: errors.New("patient_id is required")})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_file", Err: err})
		return
	}
	defer file.Close()

	xray, err := h.client.Upload(r.Context(), backend.UploadInput{
		PatientID:   patientID,
		FileName:    header.Filename,
		File:        file,
		Description: r.FormValue("description"),
		DateTaken:   r.FormValue("date_taken"),
	})
	if err != nil {
		WriteAPIError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, xray)
}
