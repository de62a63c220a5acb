package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"sort"
)

// Multipart describes a multipart/form-data request body, used by the X-ray
// upload endpoint.
type Multipart struct {
	// Fields are plain form values.
	Fields map[string]string
	// FileField is the form name of the file part, e.g. "file".
	FileField string
	// FileName is the client-side name of the uploaded file.
	FileName string
	// File is the file content.
	File io.Reader
}

// encode renders the body and returns it with the Content-Type value carrying
// the generated boundary.
func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %q: %w", k, err)
		}
	}

	if m.File != nil {
		if m.FileField == "" {
			return nil, "", fmt.Errorf("multipart file field name is required")
		}
		part, err := w.CreateFormFile(m.FileField, m.FileName)
		if err != nil {
			return nil, "", fmt.Errorf("create file part: %w", err)
		}
		if _, err := io.Copy(part, m.File); err != nil {
			return nil, "", fmt.Errorf("copy file content: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
