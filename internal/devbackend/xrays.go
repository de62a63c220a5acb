package devbackend

import (
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dentnotion/dentnotion/internal/domain/model"
)

// maxUploadBytes bounds one X-ray upload.
const maxUploadBytes = 32 << 20

func (s *Server) handleXrayList(w http.ResponseWriter, r *http.Request) {
	items := s.xrays.List()
	if patientID := r.URL.Query().Get("patient_id"); patientID != "" {
		filtered := items[:0:0]
		for _, x := range items {
			if x.PatientID == patientID {
				filtered = append(filtered, x)
			}
		}
		items = filtered
	}
	writeList(s, w, items)
}

func (s *Server) handleXrayGet(w http.ResponseWriter, r *http.Request) {
	x, ok := s.xrays.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Not found", "not_found")
		return
	}
	writeJSON(w, http.StatusOK, x)
}

func (s *Server) handleXrayDelete(w http.ResponseWriter, r *http.Request) {
	if !s.xrays.Delete(chi.URLParam(r, "id")) {
		writeError(w, http.StatusNotFound, "Not found", "not_found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleXrayUpload accepts a multipart form with the image under "file". The
// dev backend does not keep image bytes; it records metadata and mints fake
// URLs, which is all the gateway ever reads back.
func (s *Server) handleXrayUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed multipart body", "parse_error")
		return
	}

	fe := fieldErrors{}
	patientID := r.FormValue("patient_id")
	if patientID == "" {
		fe.add("patient_id", "Patient is required.")
	} else if !s.patientExists(patientID) {
		fe.add("patient_id", "Unknown patient.")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		fe.add("file", "An image file is required.")
	}
	if len(fe) > 0 {
		writeFieldErrors(w, fe)
		return
	}
	defer file.Close()

	// Drain the upload so clients see realistic transfer behavior.
	n, err := io.Copy(io.Discard, file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Could not read uploaded file", "parse_error")
		return
	}
	s.logger.Debug("xray upload received", "patient_id", patientID, "file", header.Filename, "bytes", n)

	x := s.xrays.Create(model.Xray{
		PatientID:   patientID,
		ImageName:   header.Filename,
		ImageType:   strings.TrimPrefix(path.Ext(header.Filename), "."),
		Description: r.FormValue("description"),
		DateTaken:   r.FormValue("date_taken"),
		CreatedAt:   nowStamp(),
	})

	// Fake storage URLs, stable per id.
	x.ImageURL = "https://storage.dentnotion.local/xrays/" + x.ID
	x.SignedURL = x.ImageURL + "?sig=dev"
	x, _ = s.xrays.Update(x.ID, x)

	writeJSON(w, http.StatusCreated, x)
}
