// Package session owns the console's signed-in state and the short-lived
// bearer credential attached to every API call.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/citycarcenters/fleetconsole/internal/common"
)

// TokenSource asynchronously produces a fresh bearer token from the identity
// collaborator. An empty token means the session was signed out remotely.
type TokenSource func(ctx context.Context) (string, error)

// Provider resolves a currently valid bearer token on demand. It caches the
// last token and re-derives through the TokenSource once the cached one
// expires; callers never see an expired token.
type Provider struct {
	mu     sync.Mutex
	source TokenSource
	token  string
}

func NewProvider() *Provider {
	return &Provider{}
}

// SignIn installs the initial token and the source used to re-derive it.
func (p *Provider) SignIn(token string, source TokenSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
	p.source = source
}

// SignOut tears down the session. Subsequent Token calls fail with
// common.ErrNotSignedIn.
func (p *Provider) SignOut() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	p.source = nil
}

// SignedIn reports whether a session is currently established.
func (p *Provider) SignedIn() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.source != nil || p.token != ""
}

// Fresh reports whether a Token call can succeed without signing in again:
// either the cached token is still valid or a source exists to refresh it.
// Used as a route guard before opening protected views.
func (p *Provider) Fresh() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.token != "" && !IsExpired(p.token) {
		return true
	}
	return p.source != nil
}

// Token returns a valid bearer token, refreshing through the TokenSource if
// the cached one is expired. Concurrent callers are serialized so at most one
// refresh is in flight.
func (p *Provider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && !IsExpired(p.token) {
		return p.token, nil
	}

	if p.source == nil {
		return "", common.ErrNotSignedIn
	}

	token, err := p.source(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrAuthUnavailable, err)
	}
	if token == "" {
		// The identity collaborator reports a signed-out session.
		p.token = ""
		p.source = nil
		return "", common.ErrNotSignedIn
	}
	if IsExpired(token) {
		return "", fmt.Errorf("%w: refreshed token already expired", common.ErrAuthUnavailable)
	}

	p.token = token
	return p.token, nil
}
