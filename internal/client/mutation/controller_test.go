package mutation

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/citycarcenters/fleetconsole/internal/client/cache"
	"github.com/citycarcenters/fleetconsole/internal/client/models"
	"github.com/citycarcenters/fleetconsole/internal/common"
	"github.com/citycarcenters/fleetconsole/internal/logging"
)

func newTestController(t *testing.T) (*Controller, *cache.Store) {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	store := cache.NewStore(log)
	return NewController(store, log), store
}

func pendingUserList() models.UserList {
	return models.UserList{Users: []models.User{
		{ID: "1", Name: "Ada", Status: models.AdminStatusPending},
	}}
}

func approvePatch(id string) Patch {
	return func(data any) any {
		list, ok := data.(models.UserList)
		if !ok {
			return data
		}
		out := models.UserList{Users: append([]models.User(nil), list.Users...)}
		for i := range out.Users {
			if out.Users[i].ID == id {
				out.Users[i].Status = models.AdminStatusApproved
			}
		}
		return out
	}
}

func TestExecute_OptimisticThenConfirm(t *testing.T) {
	c, store := newTestController(t)
	ctx := context.Background()
	key := cache.KeyOf("users", "list")

	// Seed via a fetch so the entry has tags and a refetch function; the
	// refetch returns server truth after invalidation.
	var fetches int32
	fn := func(ctx context.Context) (any, error) {
		if atomic.AddInt32(&fetches, 1) == 1 {
			return pendingUserList(), nil
		}
		return models.UserList{Users: []models.User{
			{ID: "1", Name: "Ada", Status: models.AdminStatusApproved},
		}}, nil
	}
	_, err := store.Fetch(ctx, key, []cache.Tag{cache.TagUsers, cache.TagApprovals}, fn)
	require.NoError(t, err)
	store.Observe(key)

	var observedDuringFlight models.UserList
	err = c.Execute(ctx, Command{
		Kind:     KindApprove,
		TargetID: "1",
		Tags:     []cache.Tag{cache.TagApprovals},
		Patch:    approvePatch("1"),
		Dispatch: func(ctx context.Context) error {
			e, ok := store.Entry(key)
			require.True(t, ok)
			observedDuringFlight = e.Data.(models.UserList)
			return nil
		},
	})
	require.NoError(t, err)

	// The view reflected the pending action before the call resolved.
	require.Equal(t, models.AdminStatusApproved, observedDuringFlight.Users[0].Status)

	// Invalidation refetches server truth.
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fetches) >= 2
	}, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool {
		e, ok := store.Entry(key)
		if !ok || e.Status != cache.StatusSuccess {
			return false
		}
		list := e.Data.(models.UserList)
		return list.Users[0].Status == models.AdminStatusApproved
	}, time.Second, 5*time.Millisecond)
}

func TestExecute_OptimisticThenRollback(t *testing.T) {
	c, store := newTestController(t)
	ctx := context.Background()
	key := cache.KeyOf("users", "list")

	var fetches int32
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&fetches, 1)
		return pendingUserList(), nil
	}
	before, err := store.Fetch(ctx, key, []cache.Tag{cache.TagApprovals}, fn)
	require.NoError(t, err)
	store.Observe(key)

	httpErr := &failErr{msg: "not eligible"}
	err = c.Execute(ctx, Command{
		Kind:     KindApprove,
		TargetID: "1",
		Tags:     []cache.Tag{cache.TagApprovals},
		Patch:    approvePatch("1"),
		Dispatch: func(ctx context.Context) error { return httpErr },
	})
	require.ErrorIs(t, err, httpErr)

	// Cache restored to its pre-mutation value.
	after, ok := store.Entry(key)
	require.True(t, ok)
	require.Equal(t, before.Data, after.Data)

	// No invalidation means no refetch, even for an observed entry.
	time.Sleep(50 * time.Millisecond)
	require.EqualValues(t, 1, atomic.LoadInt32(&fetches), "rollback must not invalidate tags")
}

func TestExecute_DuplicateMutationGuard(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	var calls int32
	entered := make(chan struct{})
	release := make(chan struct{})
	dispatch := func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		close(entered)
		<-release
		return nil
	}

	done := make(chan error)
	go func() {
		done <- c.Execute(ctx, Command{Kind: KindApprove, TargetID: "x", Dispatch: dispatch})
	}()
	<-entered

	err := c.Execute(ctx, Command{Kind: KindApprove, TargetID: "x", Dispatch: dispatch})
	require.ErrorIs(t, err, common.ErrOperationInProgress)

	close(release)
	require.NoError(t, <-done)
	require.EqualValues(t, 1, atomic.LoadInt32(&calls), "duplicate must not reach the network")

	// Once the first command finished, the pair is free again.
	err = c.Execute(ctx, Command{Kind: KindApprove, TargetID: "x", Dispatch: func(ctx context.Context) error { return nil }})
	require.NoError(t, err)
}

func TestExecute_DifferentKindsMayOverlap(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- c.Execute(ctx, Command{Kind: KindApprove, TargetID: "x", Dispatch: func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		}})
	}()
	<-entered

	err := c.Execute(ctx, Command{Kind: KindDelete, TargetID: "x", Dispatch: func(ctx context.Context) error { return nil }})
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}

func TestExecute_ConcurrentCreatesMayOverlap(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error)
	go func() {
		done <- c.Execute(ctx, Command{Kind: KindCreate, Dispatch: func(ctx context.Context) error {
			close(entered)
			<-release
			return nil
		}})
	}()
	<-entered

	// A second create targets a different new entity; it must not be held
	// up by the first one still being in flight.
	err := c.Execute(ctx, Command{Kind: KindCreate, Dispatch: func(ctx context.Context) error { return nil }})
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)
}

func TestExecute_EmptyTargetFailsLocally(t *testing.T) {
	c, _ := newTestController(t)
	err := c.Execute(context.Background(), Command{
		Kind:     KindDelete,
		Dispatch: func(ctx context.Context) error { t.Fatal("must not dispatch"); return nil },
	})
	require.ErrorIs(t, err, common.ErrInvalidOperation)
}

func TestExecute_PreconditionViolation(t *testing.T) {
	c, store := newTestController(t)
	key := cache.KeyOf("users", "list")
	store.Write(key, pendingUserList())
	entryBefore, _ := store.Entry(key)

	err := c.Execute(context.Background(), Command{
		Kind:     KindApprove,
		TargetID: "1",
		Tags:     []cache.Tag{cache.TagApprovals},
		Precondition: func() error {
			return common.ErrInvalidOperation
		},
		Patch:    approvePatch("1"),
		Dispatch: func(ctx context.Context) error { t.Fatal("must not dispatch"); return nil },
	})
	require.ErrorIs(t, err, common.ErrInvalidOperation)

	// No optimistic patch was applied.
	entryAfter, _ := store.Entry(key)
	require.Equal(t, entryBefore.Generation, entryAfter.Generation)
}

type failErr struct{ msg string }

func (e *failErr) Error() string { return e.msg }
