// Package mutation executes state-changing operations against the backend
// with an optimistic-apply/confirm/rollback protocol over the query cache.
package mutation

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/citycarcenters/fleetconsole/internal/client/cache"
	"github.com/citycarcenters/fleetconsole/internal/common"
	"github.com/citycarcenters/fleetconsole/internal/logging"
)

type Kind string

const (
	KindApprove Kind = "approve"
	KindReject  Kind = "reject"
	KindDelete  Kind = "delete"
	KindCreate  Kind = "create"
	KindUpdate  Kind = "update"
)

// Patch rewrites one cached payload to reflect the pending action. It must
// be pure: same input, same output, no side effects.
type Patch func(data any) any

// Command describes one mutation. The optimistic Patch is applied to every
// cache entry tagged with Tags before Dispatch runs; on failure the prior
// data is restored from snapshots taken at apply time.
type Command struct {
	ID       string
	Kind     Kind
	TargetID string
	Tags     []cache.Tag

	// Precondition validates the operation against current entity status.
	// Optional; return an error wrapping common.ErrInvalidOperation to stop
	// the command before any cache or network activity.
	Precondition func() error

	// Patch is the optimistic rewrite. Optional.
	Patch Patch

	// Dispatch performs the network call.
	Dispatch func(ctx context.Context) error
}

// snapshot holds the before-state of one entry so rollback is a pure data
// operation rather than an inverse patch.
type snapshot struct {
	key    cache.Key
	before any
}

type flightKey struct {
	target string
	kind   Kind
}

// Controller serializes identical mutations and owns the optimistic
// protocol. One in-flight command per (target, kind) pair; duplicates fail
// locally with common.ErrOperationInProgress.
type Controller struct {
	store *cache.Store
	log   logging.Logger

	mu       sync.Mutex
	inFlight map[flightKey]struct{}
}

func NewController(store *cache.Store, log logging.Logger) *Controller {
	return &Controller{
		store:    store,
		log:      log,
		inFlight: make(map[flightKey]struct{}),
	}
}

func (c *Controller) begin(fk flightKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.inFlight[fk]; dup {
		return fmt.Errorf("%w: %s %s", common.ErrOperationInProgress, fk.kind, fk.target)
	}
	c.inFlight[fk] = struct{}{}
	return nil
}

func (c *Controller) end(fk flightKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, fk)
}

// Execute runs one command through the full protocol:
// validate, apply optimistically, dispatch, then confirm by invalidating the
// declared tags or roll back the snapshots and surface the error.
func (c *Controller) Execute(ctx context.Context, cmd Command) error {
	if cmd.ID == "" {
		cmd.ID = uuid.NewString()
	}

	if cmd.TargetID == "" && cmd.Kind != KindCreate {
		return fmt.Errorf("%w: empty target id", common.ErrInvalidOperation)
	}
	if cmd.Dispatch == nil {
		return fmt.Errorf("%w: command has no dispatch", common.ErrInvalidOperation)
	}
	if cmd.Precondition != nil {
		if err := cmd.Precondition(); err != nil {
			return err
		}
	}

	fk := flightKey{target: cmd.TargetID, kind: cmd.Kind}
	if cmd.Kind == KindCreate && cmd.TargetID == "" {
		// A create has no server id yet, so the exclusion is scoped to the
		// command itself; unrelated creates may run concurrently.
		fk.target = cmd.ID
	}
	if err := c.begin(fk); err != nil {
		return err
	}
	defer c.end(fk)

	snapshots := c.applyOptimistic(cmd)

	if err := cmd.Dispatch(ctx); err != nil {
		c.rollback(ctx, cmd, snapshots)
		return err
	}

	// Server confirmed: authoritative refetch supersedes the guess.
	for _, tag := range cmd.Tags {
		c.store.Invalidate(tag)
	}
	c.log.Debug(ctx, "mutation confirmed", "id", cmd.ID, "kind", string(cmd.Kind), "target", cmd.TargetID)
	return nil
}

func (c *Controller) applyOptimistic(cmd Command) []snapshot {
	if cmd.Patch == nil {
		return nil
	}

	seen := make(map[cache.Key]struct{})
	var snapshots []snapshot
	for _, tag := range cmd.Tags {
		for _, key := range c.store.KeysWithTag(tag) {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			if before, ok := c.store.Mutate(key, cmd.Patch); ok {
				snapshots = append(snapshots, snapshot{key: key, before: before})
			}
		}
	}
	return snapshots
}

// rollback restores the pre-mutation data. Tags are deliberately not
// invalidated: nothing changed server-side, so a refetch would be wasted.
func (c *Controller) rollback(ctx context.Context, cmd Command, snapshots []snapshot) {
	for _, s := range snapshots {
		c.store.Write(s.key, s.before)
	}
	c.log.Warn(ctx, "mutation rolled back", "id", cmd.ID, "kind", string(cmd.Kind), "target", cmd.TargetID)
}
