package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citycarcenters/fleetconsole/internal/client/api"
	"github.com/citycarcenters/fleetconsole/internal/client/cache"
	"github.com/citycarcenters/fleetconsole/internal/client/models"
	"github.com/citycarcenters/fleetconsole/internal/client/mutation"
	"github.com/citycarcenters/fleetconsole/internal/logging"
)

type dispatchedCall struct {
	method string
	path   string
	body   any
}

// fakeDispatcher records every call and delegates responses to a scripted
// handler, the same way the backend would answer.
type fakeDispatcher struct {
	mu      sync.Mutex
	calls   []dispatchedCall
	forms   []*api.Form
	handler func(method, path string, body any, out any) error
}

func (f *fakeDispatcher) record(c dispatchedCall) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

func (f *fakeDispatcher) Do(ctx context.Context, method, path string, body any, out any) error {
	f.record(dispatchedCall{method: method, path: path, body: body})
	if f.handler == nil {
		return nil
	}
	return f.handler(method, path, body, out)
}

func (f *fakeDispatcher) DoPublic(ctx context.Context, method, path string, body any, out any) error {
	return f.Do(ctx, method, path, body, out)
}

func (f *fakeDispatcher) DoMultipart(ctx context.Context, method, path string, form *api.Form, out any) error {
	f.mu.Lock()
	f.forms = append(f.forms, form)
	f.mu.Unlock()
	return f.Do(ctx, method, path, nil, out)
}

func (f *fakeDispatcher) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.path == path {
			n++
		}
	}
	return n
}

func (f *fakeDispatcher) lastCall(t *testing.T) dispatchedCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestStore() *cache.Store {
	return cache.NewStore(testLogger())
}

func newTestController(store *cache.Store) *mutation.Controller {
	return mutation.NewController(store, testLogger())
}

// seedUserList plants a successful list entry with the user tags that the
// services declare, so optimistic patches reach it.
func seedUserList(t *testing.T, store *cache.Store, key cache.Key, list models.UserList) {
	t.Helper()
	tags := []cache.Tag{cache.TagUsers, cache.TagApprovals}
	_, err := store.Fetch(context.Background(), key, tags, func(ctx context.Context) (any, error) {
		return list, nil
	})
	require.NoError(t, err)
}

func entryUserList(t *testing.T, store *cache.Store, key cache.Key) models.UserList {
	t.Helper()
	entry, ok := store.Entry(key)
	require.True(t, ok)
	list, ok := entry.Data.(models.UserList)
	require.True(t, ok)
	return list
}
