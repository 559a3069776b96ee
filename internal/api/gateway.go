// Package api is the single gateway every remote call flows through.
// It attaches the session token, decodes the service's response
// envelope and classifies failures, handling 401 exactly once for the
// whole client: an unauthorized response logs the session out before
// the error is returned, so no caller needs its own 401 handling.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"

	"simspay/internal/logging"
	"simspay/internal/session"
)

// envelope is the fixed response shape of the remote service.
// status == 0 means success regardless of the HTTP status code, so the
// body must always be inspected.
type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Result is a decoded success payload tagged with the session
// generation the request was issued under. Consumers compare the
// generation against the current one before applying the payload,
// which is what stops a slow response from repopulating state after
// a logout.
type Result struct {
	Data       json.RawMessage
	Generation uint64
}

type Gateway struct {
	baseURL string
	http    *http.Client
	session *session.Manager
	log     logging.Logger
}

type Option func(*Gateway)

// WithHTTPClient replaces the underlying client (tests use this to
// point at an httptest server with a short timeout).
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.http = c }
}

func NewGateway(baseURL string, sess *session.Manager, log logging.Logger, opts ...Option) *Gateway {
	g := &Gateway{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		session: sess,
		log:     log,
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Request issues method path with an optional JSON body and returns the
// envelope's data payload. Login and registration run through here too;
// they simply execute while the session is Anonymous, in which case no
// Authorization header is attached.
func (g *Gateway) Request(ctx context.Context, method, path string, body any) (Result, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return Result{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return Result{}, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return g.do(ctx, req)
}

// Upload issues a multipart request carrying a single file under the
// given form field. Size preconditions are the caller's concern.
func (g *Gateway) Upload(ctx context.Context, method, path, field, filename string, file []byte) (Result, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return Result{}, err
	}
	if _, err := part.Write(file); err != nil {
		return Result{}, err
	}
	if err := mw.Close(); err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, &buf)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return g.do(ctx, req)
}

func (g *Gateway) do(ctx context.Context, req *http.Request) (Result, error) {
	token, generation := g.session.Snapshot()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	log := g.log.With("method", req.Method, "path", req.URL.Path, "request_id", requestID)
	log.Debug(ctx, "issuing request")

	resp, err := g.http.Do(req)
	if err != nil {
		log.Warn(ctx, "transport failure", "error", err)
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// End the session once, centrally. A 401 for a request issued
		// under an older generation belongs to a session that is
		// already gone and must not terminate the current one.
		if g.session.Generation() == generation {
			log.Warn(ctx, "unauthorized, ending session")
			_ = g.session.Logout(ctx)
		}
		return Result{}, ErrUnauthorized
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Result{}, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	if env.Status != 0 {
		log.Debug(ctx, "application error", "status", env.Status, "message", env.Message)
		return Result{}, &StatusError{Code: env.Status, Message: env.Message}
	}

	return Result{Data: env.Data, Generation: generation}, nil
}
