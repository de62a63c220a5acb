package backend

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/dentnotion/dentnotion/internal/api"
	"github.com/dentnotion/dentnotion/internal/domain/model"
)

// uploadTimeout gives file uploads more room than the default call deadline.
const uploadTimeout = 30 * time.Second

// Xrays is the typed client for /xrays/. Beyond the conventional operations it
// supports per-patient listing and multipart image upload.
type Xrays struct {
	resource[model.Xray]
}

func NewXrays(c *api.Client) *Xrays {
	return &Xrays{resource[model.Xray]{c: c, path: "/xrays/", label: "X-ray"}}
}

// ListForPatient returns the X-rays attached to one patient.
func (x *Xrays) ListForPatient(ctx context.Context, patientID string) (api.List[model.Xray], error) {
	return x.list(ctx, url.Values{"patient_id": {patientID}})
}

// UploadInput describes a new X-ray image.
type UploadInput struct {
	PatientID string
	FileName  string
	File      io.Reader
	// Description and DateTaken are optional metadata.
	Description string
	DateTaken   string
}

// Upload sends the image as multipart form data.
func (x *Xrays) Upload(ctx context.Context, in UploadInput) (model.Xray, error) {
	fields := map[string]string{"patient_id": in.PatientID}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	if in.DateTaken != "" {
		fields["date_taken"] = in.DateTaken
	}

	var out model.Xray
	raw, err := x.c.Do(ctx, api.Request{
		Method: http.MethodPost,
		Path:   x.path,
		Form: &api.Multipart{
			Fields:    fields,
			FileField: "file",
			FileName:  in.FileName,
			File:      in.File,
		},
		Timeout:   uploadTimeout,
		ErrPrefix: "Failed to upload X-ray",
	})
	if err != nil {
		return out, err
	}
	err = api.DecodeInto(raw, &out)
	return out, err
}
