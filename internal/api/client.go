// Package api is the HTTP+JSON client for the remote Text-to-SQL service.
//
// The service is treated as an opaque collaborator exposing:
//
//	POST   /auth/token                     login
//	POST   /auth/register                  register (token issued immediately)
//	POST   /auth/reset-password/questions  recovery step 1
//	POST   /auth/reset-password            recovery step 2
//	GET    /schema/all/{username}          list schema contexts
//	POST   /schema                         create or update a schema context
//	DELETE /schema/{table}/{username}      delete a schema context
//	POST   /generate_sql                   generate SQL (bearer auth)
//	GET    /history/{username}             query history (bearer auth)
//	DELETE /history/{username}             clear history (bearer auth)
//
// Failures are parsed from the server's {"detail": ...} envelope and sorted
// into the taxonomy in errors.go; the 401 status is the sole auth-error
// signal the client reacts to.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to one Text-to-SQL service instance. It is stateless apart
// from the base URL; the bearer token is passed per call so that the session
// owner (the workspace coordinator) remains the single source of auth state.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *zap.Logger
}

// NewClient builds a client for the service at baseURL. A zero timeout means
// no client-side timeout; a hung request then leaves the issuing panel in its
// loading state, which is acceptable because nothing polls in the background.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// BaseURL reports the configured service address.
func (c *Client) BaseURL() string { return c.baseURL }

// httpError is the pre-taxonomy form of a non-2xx response. Each endpoint
// maps it onto the taxonomy with its own fallback detail, mirroring how each
// form owns its failure message.
type httpError struct {
	StatusCode int
	Detail     string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Detail)
}

// detailEnvelope is the FastAPI-style error body.
type detailEnvelope struct {
	Detail string `json:"detail"`
}

// do issues one JSON round-trip. body and out may be nil. token is added as
// a bearer credential when non-empty. Returns *httpError for non-2xx
// responses and *TransportError for everything below that.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: "encode request", Err: err}
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return &TransportError{Op: "build request", Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	reqID := uuid.NewString()
	start := time.Now()

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Debug("request failed",
			zap.String("request_id", reqID),
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: "read response", Err: err}
	}

	c.log.Debug("request completed",
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env detailEnvelope
		_ = json.Unmarshal(raw, &env) // best effort; detail stays empty on garbage
		return &httpError{StatusCode: resp.StatusCode, Detail: env.Detail}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return &TransportError{Op: "decode response", Err: err}
		}
	}
	return nil
}

// detailOr returns the server-provided detail, or fallback when the server
// sent none. The surfaced message is always one of the two, verbatim.
func detailOr(e *httpError, fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}
