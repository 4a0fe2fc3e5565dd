// Package realtime maintains the push channel and maps inbound events to
// query-cache invalidation and direct local patches.
package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/citycarcenters/fleetconsole/internal/client/cache"
	"github.com/citycarcenters/fleetconsole/internal/logging"
)

// Event is a named push notification with its raw JSON payload. Delivery is
// at-most-once; there is no acknowledgment protocol.
type Event struct {
	Name    string
	Payload json.RawMessage
}

// Transport delivers push events into the channel until ctx is canceled.
// Reconnection is the transport's own concern.
type Transport interface {
	Subscribe(ctx context.Context, events chan<- Event) error
}

// Route maps one event name to the tags it invalidates. Apply, when set,
// performs a direct local patch first so affected rows disappear without
// waiting for the authoritative refetch.
type Route struct {
	Tags  []cache.Tag
	Apply func(payload json.RawMessage)
}

// Bridge owns one push subscription per signed-in session with explicit
// Open/Close lifecycle.
type Bridge struct {
	store     *cache.Store
	transport Transport
	log       logging.Logger

	mu     sync.Mutex
	routes map[string]Route
	cancel context.CancelFunc
	done   chan struct{}
}

func NewBridge(store *cache.Store, transport Transport, log logging.Logger) *Bridge {
	return &Bridge{
		store:     store,
		transport: transport,
		log:       log,
		routes:    make(map[string]Route),
	}
}

// Register installs the route for an event name, replacing any previous one.
// The known event set is extensible; unrouted events are logged and dropped.
func (b *Bridge) Register(name string, route Route) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[name] = route
}

// Open starts consuming push events. Calling Open on an already open bridge
// is a no-op.
func (b *Bridge) Open(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	done := make(chan struct{})
	b.done = done

	events := make(chan Event)
	go func() {
		if err := b.transport.Subscribe(ctx, events); err != nil && ctx.Err() == nil {
			b.log.Error(ctx, "push transport stopped", "error", err)
		}
		close(events)
	}()
	go func() {
		defer close(done)
		for ev := range events {
			b.handle(ctx, ev)
		}
	}()
}

// Close stops the subscription and waits for the dispatch loop to drain.
func (b *Bridge) Close() {
	b.mu.Lock()
	cancel, done := b.cancel, b.done
	b.cancel = nil
	b.done = nil
	b.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (b *Bridge) handle(ctx context.Context, ev Event) {
	b.mu.Lock()
	route, ok := b.routes[ev.Name]
	b.mu.Unlock()
	if !ok {
		b.log.Debug(ctx, "unrouted push event", "event", ev.Name)
		return
	}

	// Local patch first so the view updates without a round-trip, then the
	// authoritative invalidation catches derived counts and aggregates.
	if route.Apply != nil {
		route.Apply(ev.Payload)
	}
	for _, tag := range route.Tags {
		b.store.Invalidate(tag)
	}
	b.log.Debug(ctx, "push event handled", "event", ev.Name, "tags", len(route.Tags))
}
