package realtime

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cenkalti/backoff/v4"

	"github.com/citycarcenters/fleetconsole/internal/client/session"
	"github.com/citycarcenters/fleetconsole/internal/common"
	"github.com/citycarcenters/fleetconsole/internal/logging"
)

// SSETransport consumes a text/event-stream endpoint, authenticating with
// the session's bearer token. Dropped connections are re-established with
// exponential backoff until the subscribing context is canceled.
type SSETransport struct {
	url    string
	tokens *session.Provider
	client *http.Client
	log    logging.Logger
}

func NewSSETransport(url string, tokens *session.Provider, log logging.Logger) *SSETransport {
	// No overall client timeout: the stream is long-lived by design.
	return &SSETransport{
		url:    url,
		tokens: tokens,
		client: &http.Client{},
		log:    log,
	}
}

// newReconnectPolicy builds the backoff used between reconnect attempts.
// MaxElapsedTime must stay zero: the subscription lives as long as the
// session, so the policy never expires on its own.
func newReconnectPolicy() *backoff.ExponentialBackOff {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 0
	return policy
}

// Subscribe connects and forwards events until ctx is canceled. A stream
// that ends or errors triggers a reconnect; only context cancellation or a
// signed-out session ends the subscription.
func (t *SSETransport) Subscribe(ctx context.Context, events chan<- Event) error {
	policy := newReconnectPolicy()

	op := func() error {
		// A successful connection resets the backoff, so a drop after a
		// long-lived stream starts from the initial interval again.
		err := t.stream(ctx, events, policy.Reset)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			if isAuthErr(err) {
				// No session to authenticate the channel with anymore.
				return backoff.Permanent(err)
			}
			t.log.Warn(ctx, "push channel dropped, reconnecting", "error", err)
			return err
		}
		// Server closed the stream cleanly; reconnect as well.
		return fmt.Errorf("push stream closed")
	}

	err := backoff.Retry(op, backoff.WithContext(policy, ctx))
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (t *SSETransport) stream(ctx context.Context, events chan<- Event, connected func()) error {
	token, err := t.tokens.Token(ctx)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set(common.AuthorizationHeader, "Bearer "+token)

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push channel status %d", resp.StatusCode)
	}
	connected()

	t.log.Info(ctx, "push channel open", "url", t.url)

	var name string
	var data strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			// Blank line terminates one event.
			if name != "" || data.Len() > 0 {
				select {
				case events <- Event{Name: name, Payload: json.RawMessage(data.String())}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			name = ""
			data.Reset()
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		default:
			// Comments and unknown fields are ignored.
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	return nil
}

func isAuthErr(err error) bool {
	return errors.Is(err, common.ErrNotSignedIn) || errors.Is(err, common.ErrAuthUnavailable)
}
