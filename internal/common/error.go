// Package common defines shared constants and sentinel errors used across
// the console's client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Session / auth errors.
	ErrNotSignedIn     = errors.New("not signed in")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrAuthUnavailable = errors.New("auth unavailable")

	// Transport errors.
	ErrNetwork = errors.New("network error")
	ErrDecode  = errors.New("malformed response body")

	// Mutation errors (client-side precondition violations).
	ErrInvalidOperation    = errors.New("invalid operation")
	ErrOperationInProgress = errors.New("operation already in progress")

	// Cache errors.
	ErrNotFound = errors.New("not found")
)
