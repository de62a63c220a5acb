package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dentnotion/dentnotion/internal/api"
)

// DecodeJSON decodes JSON from the request body into the destination and handles errors.
// Returns true if successful, false if there was an error (error response already written).
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_json", Err: err})
		return false
	}

	return true
}

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		// Response writer errors (e.g., client disconnect) can't be recovered from here.
		return
	}
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes a JSON error response using ErrorParams.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	WriteJSON(w, p.Code, map[string]string{"error": p.ErrCode, "message": p.Err.Error()})
}

// WriteAPIError translates a backend call failure into a gateway response.
// HTTP failures pass the backend's status through; transport failures map to
// gateway statuses (504 for a timeout, 502 for an unreachable backend).
func WriteAPIError(w http.ResponseWriter, err error) {
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "internal_error", Err: err})
		return
	}

	switch apiErr.Kind {
	case api.KindTimeout:
		WriteError(w, ErrorParams{Code: http.StatusGatewayTimeout, ErrCode: "backend_timeout", Err: apiErr})
	case api.KindNetworkUnreachable:
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "backend_unreachable", Err: apiErr})
	case api.KindMalformedResponse:
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "backend_malformed_response", Err: apiErr})
	default:
		body := map[string]any{"error": "backend_error", "message": apiErr.Message}
		if apiErr.Detail != "" {
			body["detail"] = apiErr.Detail
		}
		if len(apiErr.Fields) > 0 {
			body["fields"] = apiErr.Fields
		}
		code := apiErr.Status
		if code < 400 || code > 599 {
			code = http.StatusBadGateway
		}
		WriteJSON(w, code, body)
	}
}
