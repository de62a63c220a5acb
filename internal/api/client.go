package api

// Package api implements the resilient HTTP client shared by every DentNotion
// resource module. It normalizes timeouts, transport failures and non-2xx
// responses into a single typed failure shape so callers never see a raw
// transport error.

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultTimeout bounds a call unless the request overrides it.
	DefaultTimeout = 10 * time.Second

	// maxErrorBody caps how much of an error response body is read when
	// building the failure detail.
	maxErrorBody = 64 << 10
)

// Options groups Client construction parameters.
type Options struct {
	// BaseURL is the backend API root, e.g. "http://localhost:8000/api".
	BaseURL string
	// HTTPClient is the underlying transport. A plain &http.Client{} is used
	// when nil; per-call timeouts are applied via context, not Client.Timeout.
	HTTPClient *http.Client
	// Timeout is the default per-call deadline. DefaultTimeout when zero.
	Timeout time.Duration
	// Tokens supplies the bearer credential for authenticated calls. Optional;
	// requests may also carry an explicit token.
	Tokens oauth2.TokenSource
	// Logger receives one line per call. slog.Default when nil.
	Logger *slog.Logger
}

// Client performs HTTP calls against the DentNotion backend and converts every
// outcome into either decoded JSON or an *Error.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	tokens  oauth2.TokenSource
	logger  *slog.Logger
	detail  *detailExtractor
}

// NewClient builds a Client. BaseURL is required.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, errors.New("api: base URL is required")
	}
	if _, err := url.Parse(base); err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	extractor, err := newDetailExtractor()
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL: base,
		http:    hc,
		timeout: timeout,
		tokens:  opts.Tokens,
		logger:  logger,
		detail:  extractor,
	}, nil
}

// Request describes a single call. Path is joined to the client base URL and
// should include the backend's trailing slash convention ("/patients/").
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is JSON-encoded when non-nil. Mutually exclusive with Form.
	Body any
	// Form, when non-nil, sends a multipart/form-data body instead of JSON.
	Form *Multipart
	// Timeout overrides the client default for this call.
	Timeout time.Duration
	// ErrPrefix is the caller-supplied prefix for failure messages, e.g.
	// "Failed to fetch patients".
	ErrPrefix string
	// Bearer overrides the client token source for this call. Used by the
	// identity client, which manages tokens explicitly.
	Bearer string
	// NoAuth skips bearer injection even when the client has a token source.
	NoAuth bool
}

// Do performs the call and returns the response body as raw JSON.
// A 204 response returns a nil RawMessage and nil error. Every failure is an
// *Error; no other error type escapes.
func (c *Client) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	callURL, err := c.buildURL(req)
	if err != nil {
		return nil, err
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := c.newHTTPRequest(ctx, req, callURL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		failure := c.classifyTransport(err, callURL, timeout)
		c.logger.WarnContext(ctx, "api call failed",
			slog.String("method", httpReq.Method),
			slog.String("url", callURL),
			slog.String("kind", string(failure.Kind)),
			slog.Duration("duration", time.Since(start)),
		)
		return nil, failure
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close after full read

	c.logger.DebugContext(ctx, "api call",
		slog.String("method", httpReq.Method),
		slog.String("url", callURL),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.httpFailure(resp, callURL, req.ErrPrefix)
	}

	if resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{
			Kind:    KindNetworkUnreachable,
			Message: prefix(req.ErrPrefix, "connection lost while reading response"),
			URL:     callURL,
			cause:   err,
		}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		// Some endpoints answer 200 with an empty body; treat like 204.
		return nil, nil
	}
	if !json.Valid(body) {
		return nil, &Error{
			Kind:    KindMalformedResponse,
			Message: prefix(req.ErrPrefix, "server returned a non-JSON response"),
			Status:  resp.StatusCode,
			URL:     callURL,
		}
	}
	return json.RawMessage(body), nil
}

// Get is shorthand for a GET call.
func (c *Client) Get(ctx context.Context, path, errPrefix string) (json.RawMessage, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, ErrPrefix: errPrefix})
}

// Delete is shorthand for a DELETE call.
func (c *Client) Delete(ctx context.Context, path, errPrefix string) error {
	_, err := c.Do(ctx, Request{Method: http.MethodDelete, Path: path, ErrPrefix: errPrefix})
	return err
}

func (c *Client) buildURL(req Request) (string, error) {
	if req.Path == "" || !strings.HasPrefix(req.Path, "/") {
		return "", &Error{
			Kind:    KindNetworkUnreachable,
			Message: fmt.Sprintf("api: request path %q must start with /", req.Path),
		}
	}
	callURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		callURL += "?" + req.Query.Encode()
	}
	return callURL, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req Request, callURL string) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		encoded, boundary, err := req.Form.encode()
		if err != nil {
			return nil, &Error{
				Kind:    KindMalformedResponse,
				Message: prefix(req.ErrPrefix, "encode multipart body: "+err.Error()),
				URL:     callURL,
				cause:   err,
			}
		}
		body = encoded
		contentType = boundary
	case req.Body != nil:
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &Error{
				Kind:    KindMalformedResponse,
				Message: prefix(req.ErrPrefix, "encode request body: "+err.Error()),
				URL:     callURL,
				cause:   err,
			}
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, callURL, body)
	if err != nil {
		return nil, &Error{
			Kind:    KindNetworkUnreachable,
			Message: prefix(req.ErrPrefix, "create request: "+err.Error()),
			URL:     callURL,
			cause:   err,
		}
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	if err := c.attachBearer(httpReq, req); err != nil {
		return nil, err
	}
	return httpReq, nil
}

// attachBearer sets the Authorization header from the explicit request token
// or the client token source. Requests marked NoAuth stay anonymous.
func (c *Client) attachBearer(httpReq *http.Request, req Request) error {
	if req.NoAuth {
		return nil
	}
	if req.Bearer != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Bearer)
		return nil
	}
	if c.tokens == nil {
		return nil
	}
	tok, err := c.tokens.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		// An anonymous call is still a valid call; the backend answers 401 and
		// that surfaces as a normal HTTP failure.
		return nil
	}
	tok.SetAuthHeader(httpReq)
	return nil
}

// classifyTransport distinguishes "timed out" from "cannot reach server" so the
// surfaced message tells the operator which one happened.
func (c *Client) classifyTransport(err error, callURL string, timeout time.Duration) *Error {
	if isTimeoutErr(err) {
		return &Error{
			Kind: KindTimeout,
			Message: fmt.Sprintf("request timed out after %s; the backend server may be unresponsive or slow",
				timeout),
			URL:   callURL,
			cause: err,
		}
	}
	return &Error{
		Kind:    KindNetworkUnreachable,
		Message: "cannot reach the backend server; please ensure the backend is running",
		URL:     callURL,
		cause:   err,
	}
}

func isTimeoutErr(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}

// httpFailure builds the failure for a non-2xx response. The body is read
// JSON-first with a raw-text fallback; the final message concatenates the
// caller prefix, status code and best-effort server detail.
func (c *Client) httpFailure(resp *http.Response, callURL, errPrefix string) *Error {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if readErr != nil {
		body = nil
	}

	detail, fields := c.detail.extract(body)
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}
	if detail == "" {
		detail = "Unknown error"
	}

	return &Error{
		Kind:    KindHTTPError,
		Message: fmt.Sprintf("%s: %d - %s", orDefault(errPrefix, "Request failed"), resp.StatusCode, detail),
		Detail:  detail,
		Status:  resp.StatusCode,
		URL:     callURL,
		Fields:  fields,
	}
}

func prefix(p, msg string) string {
	if p == "" {
		return msg
	}
	return p + ": " + msg
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// DecodeInto unmarshals a success payload into dst, converting decode failures
// into the malformed-response failure kind so resource clients stay exception-free.
func DecodeInto(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return &Error{
			Kind:    KindMalformedResponse,
			Message: "server returned an empty response where a JSON body was expected",
		}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &Error{
			Kind:    KindMalformedResponse,
			Message: "decode response: " + err.Error(),
			cause:   err,
		}
	}
	return nil
}
