// Package services exposes the console's operations: typed reads through
// the query cache and optimistic writes through the mutation controller.
// Each service owns one slice of the admin API surface.
package services

import (
	"context"
	"fmt"

	"github.com/citycarcenters/fleetconsole/internal/client/cache"
)

// fetchAs loads a view through the cache and narrows the cached payload to
// its concrete type. A type mismatch means two call sites disagree about a
// key's payload, which is a programming error worth surfacing loudly.
func fetchAs[T any](ctx context.Context, store *cache.Store, key cache.Key, tags []cache.Tag, load func(ctx context.Context) (T, error)) (T, error) {
	entry, err := store.Fetch(ctx, key, tags, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	v, ok := entry.Data.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("cache entry %q holds %T, not %T", key, entry.Data, zero)
	}
	return v, nil
}
