// Package cache implements the console's query cache: a keyed store of
// fetched collections and entities with tag-based invalidation, per-key
// fetch de-duplication, and generation counters that keep late responses
// from overwriting newer state.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/citycarcenters/fleetconsole/internal/logging"
)

// Tag is a coarse invalidation label. A mutation or push event invalidates
// by tag, not by exact key, so every view depending on the tag refetches.
type Tag string

const (
	TagUsers     Tag = "users"
	TagCars      Tag = "cars"
	TagLeases    Tag = "leases"
	TagApprovals Tag = "approvals"
)

// Key identifies one collection or entity view.
type Key string

// KeyOf builds a Key from an endpoint family and its parameters.
func KeyOf(parts ...string) Key {
	return Key(strings.Join(parts, ":"))
}

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Entry is a snapshot of one cached view. Generation is a monotonic per-key
// counter; any state change bumps it, and an in-flight fetch that started
// under an older generation is discarded on completion.
type Entry struct {
	Key           Key
	Status        Status
	Data          any
	Err           error
	Tags          []Tag
	LastFetchedAt time.Time
	Generation    uint64
}

// FetchFunc loads the authoritative value for a key.
type FetchFunc func(ctx context.Context) (any, error)

// Store is the query cache. It must be constructed with NewStore and shared
// explicitly; there is no package-level instance.
type Store struct {
	mu      sync.Mutex
	entries map[Key]*entryState
	group   singleflight.Group
	log     logging.Logger
	now     func() time.Time
}

type entryState struct {
	entry    Entry
	stale    bool
	observed bool
	inFlight bool
	fetch    FetchFunc
}

func NewStore(log logging.Logger) *Store {
	return &Store{
		entries: make(map[Key]*entryState),
		log:     log,
		now:     time.Now,
	}
}

func (s *Store) ensureLocked(key Key) *entryState {
	st, ok := s.entries[key]
	if !ok {
		st = &entryState{entry: Entry{Key: key, Status: StatusIdle}}
		s.entries[key] = st
	}
	return st
}

// Fetch returns the cached entry when it is fresh, otherwise loads it.
// Concurrent callers for the same key share a single underlying fetch.
func (s *Store) Fetch(ctx context.Context, key Key, tags []Tag, fn FetchFunc) (Entry, error) {
	s.mu.Lock()
	st := s.ensureLocked(key)
	st.fetch = fn
	st.entry.Tags = append([]Tag(nil), tags...)
	if st.entry.Status == StatusSuccess && !st.stale {
		e := st.entry
		s.mu.Unlock()
		return e, nil
	}
	s.mu.Unlock()

	return s.load(ctx, key)
}

// load runs the fetch loop for a key. A completion is applied only when the
// entry's generation still matches the one captured at fetch start; otherwise
// the response is stale and discarded. A pending invalidation observed after
// an in-flight fetch resolves triggers one more round rather than being lost.
func (s *Store) load(ctx context.Context, key Key) (Entry, error) {
	for round := 0; ; round++ {
		s.mu.Lock()
		st := s.ensureLocked(key)
		if st.entry.Status == StatusSuccess && !st.stale {
			e := st.entry
			s.mu.Unlock()
			return e, nil
		}
		fn := st.fetch
		startGen := st.entry.Generation
		st.stale = false
		st.inFlight = true
		if st.entry.Status != StatusSuccess {
			st.entry.Status = StatusLoading
		}
		s.mu.Unlock()

		v, err, _ := s.group.Do(string(key), func() (any, error) {
			return fn(ctx)
		})

		s.mu.Lock()
		st.inFlight = false

		if st.entry.Generation != startGen {
			// Superseded by a Write, patch, or invalidation while in flight.
			s.log.Debug(ctx, "discarding stale fetch completion", "key", string(key))
			stale := st.stale
			e := st.entry
			s.mu.Unlock()
			if !stale && e.Status == StatusSuccess {
				return e, nil
			}
			if round >= 2 {
				return e, e.Err
			}
			continue
		}

		if err != nil {
			st.entry.Status = StatusError
			st.entry.Err = err
			st.entry.Generation++
			e := st.entry
			s.mu.Unlock()
			return e, err
		}

		st.entry.Status = StatusSuccess
		st.entry.Data = v
		st.entry.Err = nil
		st.entry.LastFetchedAt = s.now()
		st.entry.Generation++
		e := st.entry
		s.mu.Unlock()
		return e, nil
	}
}

// Invalidate marks every entry whose tag set contains tag as stale and
// refetches observed entries in the background. Entries with a fetch in
// flight are not refetched here; their load loop picks the staleness up once
// the in-flight call resolves.
func (s *Store) Invalidate(tag Tag) {
	type refetch struct {
		key  Key
		tags []Tag
		fn   FetchFunc
	}

	s.mu.Lock()
	var pending []refetch
	for key, st := range s.entries {
		if !hasTag(st.entry.Tags, tag) {
			continue
		}
		st.stale = true
		st.entry.Generation++
		if st.observed && !st.inFlight && st.fetch != nil {
			pending = append(pending, refetch{key: key, tags: st.entry.Tags, fn: st.fetch})
		}
	}
	s.mu.Unlock()

	for _, r := range pending {
		go func(r refetch) {
			_, _ = s.Fetch(context.Background(), r.key, r.tags, r.fn)
		}(r)
	}
}

// Write replaces an entry's data directly, used by optimistic patches and
// realtime reconciliation. It bumps the generation so any in-flight fetch
// started earlier is discarded on completion.
func (s *Store) Write(key Key, data any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.ensureLocked(key)
	st.entry.Status = StatusSuccess
	st.entry.Data = data
	st.entry.Err = nil
	st.entry.LastFetchedAt = s.now()
	st.entry.Generation++
	st.stale = false
}

// Mutate applies fn to the entry's data as one atomic read-modify-write and
// returns the previous data, so callers can keep a rollback snapshot. Entries
// without successfully fetched data are left untouched.
func (s *Store) Mutate(key Key, fn func(any) any) (before any, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, exists := s.entries[key]
	if !exists || st.entry.Status != StatusSuccess {
		return nil, false
	}
	before = st.entry.Data
	st.entry.Data = fn(before)
	st.entry.Generation++
	return before, true
}

// Clear resets an entry to idle with no data. Used when a detail view's
// entity is deleted out from under it.
func (s *Store) Clear(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, exists := s.entries[key]
	if !exists {
		return
	}
	st.entry.Status = StatusIdle
	st.entry.Data = nil
	st.entry.Err = nil
	st.entry.Generation++
	st.stale = false
}

// Entry returns a snapshot of the entry for key.
func (s *Store) Entry(key Key) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.entries[key]
	if !ok {
		return Entry{}, false
	}
	return st.entry, true
}

// KeysWithTag returns the keys of all entries depending on tag.
func (s *Store) KeysWithTag(tag Tag) []Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []Key
	for key, st := range s.entries {
		if hasTag(st.entry.Tags, tag) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Observe marks a key as mounted: invalidations refetch it eagerly instead
// of waiting for the next Fetch.
func (s *Store) Observe(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(key).observed = true
}

func (s *Store) Unobserve(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.entries[key]; ok {
		st.observed = false
	}
}

func hasTag(tags []Tag, tag Tag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
