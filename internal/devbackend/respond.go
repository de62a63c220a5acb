package devbackend

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// fieldErrors is the DRF-style validation payload: field name to messages.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// writeError emits the backend's flat error shape: {"error": ..., "code": ...}.
func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, map[string]string{"error": msg, "code": code})
}

// writeFieldErrors emits a 400 whose body is the bare field->messages map,
// exactly how the backend reports validation failures.
func writeFieldErrors(w http.ResponseWriter, fe fieldErrors) {
	writeJSON(w, http.StatusBadRequest, fe)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Malformed JSON body", "parse_error")
		return false
	}
	return true
}

// writeList renders a collection in the configured shape: a bare array or the
// paginated {"count", "results"} envelope.
func writeList[T any](s *Server, w http.ResponseWriter, items []T) {
	if !s.paginated {
		writeJSON(w, http.StatusOK, items)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(items), "results": items})
}
