// Package api implements the console's request dispatcher: authenticated
// HTTP calls against the admin backend with normalized error handling.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/citycarcenters/fleetconsole/internal/client/session"
	"github.com/citycarcenters/fleetconsole/internal/common"
	"github.com/citycarcenters/fleetconsole/internal/logging"
)

// Dispatcher issues calls against the admin API. Implementations attach the
// bearer credential, serialize bodies, and normalize transport and HTTP
// failures into the shared error taxonomy. No call is ever retried here;
// retry policy belongs to the caller.
type Dispatcher interface {
	// Do issues an authenticated JSON call. It fails fast with
	// common.ErrUnauthenticated when no valid token can be obtained,
	// without touching the network.
	Do(ctx context.Context, method, path string, body any, out any) error

	// DoPublic issues a JSON call without a credential. Used by the auth
	// endpoints that establish the session in the first place.
	DoPublic(ctx context.Context, method, path string, body any, out any) error

	// DoMultipart issues an authenticated multipart call (car create/update
	// with image uploads).
	DoMultipart(ctx context.Context, method, path string, form *Form, out any) error
}

// HTTPDispatcher is the production Dispatcher over net/http.
type HTTPDispatcher struct {
	baseURL string
	client  *http.Client
	tokens  *session.Provider
	log     logging.Logger
}

func NewHTTPDispatcher(baseURL string, tokens *session.Provider, log logging.Logger, timeout time.Duration) *HTTPDispatcher {
	return &HTTPDispatcher{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		tokens:  tokens,
		log:     log,
	}
}

func (d *HTTPDispatcher) Do(ctx context.Context, method, path string, body any, out any) error {
	token, err := d.tokens.Token(ctx)
	if err != nil {
		return unauthenticated(err)
	}
	payload, contentType, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return d.send(ctx, method, path, payload, contentType, token, out)
}

func (d *HTTPDispatcher) DoPublic(ctx context.Context, method, path string, body any, out any) error {
	payload, contentType, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return d.send(ctx, method, path, payload, contentType, "", out)
}

func (d *HTTPDispatcher) DoMultipart(ctx context.Context, method, path string, form *Form, out any) error {
	token, err := d.tokens.Token(ctx)
	if err != nil {
		return unauthenticated(err)
	}
	payload, contentType, err := form.encode()
	if err != nil {
		return err
	}
	return d.send(ctx, method, path, payload, contentType, token, out)
}

func encodeJSON(body any) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return payload, "application/json", nil
}

// unauthenticated maps a session failure into the dispatcher taxonomy while
// preserving the underlying sentinel for errors.Is.
func unauthenticated(err error) error {
	return &AuthError{err: err}
}

func (d *HTTPDispatcher) send(ctx context.Context, method, path string, payload []byte, contentType, token string, out any) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, d.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, "Bearer "+token)
	}

	d.log.Debug(ctx, "dispatching request", "method", method, "path", path)

	resp, err := d.client.Do(req)
	if err != nil {
		// Timeouts and ambiguous completions land here too.
		return &NetworkError{err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := newHTTPError(resp)
		d.log.Warn(ctx, "request failed", "method", method, "path", path,
			"status", httpErr.Status, "message", httpErr.Message)
		return httpErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{err: err}
	}
	return nil
}
