package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// now is a test seam.
var now = time.Now

// IsExpired reports whether the bearer token is past its JWT exp claim.
// The claim is read without signature verification; validating the token is
// the server's job, the guard only decides whether sending it is pointless.
//
// Fail safe: tokens that cannot be decoded, or that carry no expiry claim,
// are treated as expired.
func IsExpired(token string) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return !now().Before(claims.ExpiresAt.Time)
}
