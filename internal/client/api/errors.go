package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/citycarcenters/fleetconsole/internal/common"
)

// HTTPError is a non-2xx response normalized into a status code and the
// server-provided message, when the error body carried one.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

func newHTTPError(resp *http.Response) *HTTPError {
	message := http.StatusText(resp.StatusCode)

	// Error bodies look like {"message": "..."}; anything else keeps the
	// generic status text.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err == nil && len(body) > 0 {
		var parsed struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &parsed) == nil && parsed.Message != "" {
			message = parsed.Message
		}
	}

	return &HTTPError{Status: resp.StatusCode, Message: message}
}

// NetworkError means no usable response was received: connection failures,
// timeouts, canceled contexts.
type NetworkError struct {
	err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("network error: %v", e.err) }
func (e *NetworkError) Unwrap() error { return common.ErrNetwork }

// DecodeError means the server answered 2xx with a body that is not the
// JSON the caller asked for.
type DecodeError struct {
	err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decode error: %v", e.err) }
func (e *DecodeError) Unwrap() error { return common.ErrDecode }

// AuthError means the call was refused locally because no valid credential
// could be produced. The network was never touched.
type AuthError struct {
	err error
}

func (e *AuthError) Error() string { return fmt.Sprintf("unauthenticated: %v", e.err) }

func (e *AuthError) Unwrap() error {
	// Keep both the dispatcher-level sentinel and the session-level cause
	// visible to errors.Is.
	return e.err
}

// Is lets errors.Is(err, common.ErrUnauthenticated) match regardless of the
// underlying session failure.
func (e *AuthError) Is(target error) bool {
	return target == common.ErrUnauthenticated
}
