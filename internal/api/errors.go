package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies an API call failure. Every failed call maps to exactly one kind.
type Kind string

const (
	// KindNetworkUnreachable covers DNS, connection and other transport failures.
	KindNetworkUnreachable Kind = "network_unreachable"
	// KindTimeout covers calls aborted because the per-call deadline elapsed.
	KindTimeout Kind = "timeout"
	// KindHTTPError covers responses with a status outside 2xx.
	KindHTTPError Kind = "http_error"
	// KindMalformedResponse covers success responses whose body is not valid JSON.
	KindMalformedResponse Kind = "malformed_response"
)

// Error is the normalized failure returned by Client for any unsuccessful call.
// It is the only error type that crosses the client boundary.
type Error struct {
	Kind    Kind
	Message string
	// Detail is the best-effort server-provided error text, without the
	// caller-supplied prefix or status decoration. Empty for transport failures.
	Detail string
	// Status is the HTTP status code; zero when the request never completed.
	Status int
	URL    string
	// Fields holds structured validation messages keyed by field name when the
	// backend returned a 400 with a field/message map. Nil otherwise.
	Fields map[string][]string

	cause error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.cause }

// IsValidation reports whether the failure is an HTTP 400 carrying structured
// field messages from the backend.
func (e *Error) IsValidation() bool {
	return e.Kind == KindHTTPError && e.Status == http.StatusBadRequest && len(e.Fields) > 0
}

// FieldSummary flattens validation messages into "field: msg1; msg2" lines,
// sorted by field name for stable output.
func (e *Error) FieldSummary() string {
	if len(e.Fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return strings.Join(lines, "\n")
}

// IsTimeout reports whether err is an API failure caused by the per-call deadline.
func IsTimeout(err error) bool { return hasKind(err, KindTimeout) }

// IsUnreachable reports whether err is a transport-level failure.
func IsUnreachable(err error) bool { return hasKind(err, KindNetworkUnreachable) }

// IsHTTPError reports whether err is a non-2xx response failure. When it is,
// the second return value carries the status code.
func IsHTTPError(err error) (int, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Kind == KindHTTPError {
		return apiErr.Status, true
	}
	return 0, false
}

// Transient reports whether err is worth retrying from the caller's point of
// view (timeouts and unreachable backends, not HTTP rejections).
func Transient(err error) bool {
	return IsTimeout(err) || IsUnreachable(err)
}

func hasKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}
