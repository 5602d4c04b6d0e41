// file: internal/querycache/cache.go
// version: 1.2.0
// guid: d68834eb-4135-42ed-bc6b-c6a881b47bf6

// Package querycache is the process-wide, key-addressable cache of
// settled and in-flight remote reads. Every view reads through it;
// identical keys share a single underlying request.
package querycache

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/idea-foundation/reading-room/internal/metrics"
)

// State is the per-key lifecycle: idle (never fetched), loading,
// success, or error.
type State int

const (
	Idle State = iota
	Loading
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Key identifies a remote resource read. Two keys are equal iff their
// serialized forms are equal; url.Values.Encode sorts parameter names,
// which gives the stable field ordering.
type Key struct {
	id string
}

// NewKey builds a key from an endpoint name and its params record.
func NewKey(endpoint string, params url.Values) Key {
	if len(params) == 0 {
		return Key{id: endpoint}
	}
	return Key{id: endpoint + "?" + params.Encode()}
}

// String returns the serialized key form.
func (k Key) String() string {
	return k.id
}

// FetchFunc loads the value for a key.
type FetchFunc func(ctx context.Context) (any, error)

type entry struct {
	value     any
	err       error
	state     State
	settledAt time.Time
}

// Snapshot is a read-only view of one key's state machine.
type Snapshot struct {
	State State
	Value any
	Err   error
	Age   time.Duration
}

// Cache holds per-key state machines with TTL freshness. A stale
// success stays readable while a revalidation is in flight; concurrent
// reads of one key share a single fetch.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
	ttl     time.Duration
}

// New creates a cache whose successes stay fresh for ttl.
func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
}

// Get reads through the cache. Fresh values return immediately; stale
// values return immediately and trigger a background revalidation; cold
// or expired-error keys block on a shared fetch.
func (c *Cache) Get(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	e, ok := c.entries[key.id]
	if ok && e.state == Success {
		age := time.Since(e.settledAt)
		value := e.value
		c.mu.Unlock()
		if age <= c.ttl {
			metrics.IncCacheHit()
			return value, nil
		}
		metrics.IncCacheStale()
		c.revalidate(ctx, key, fetch)
		return value, nil
	}
	if ok && e.state == Error && time.Since(e.settledAt) <= c.ttl {
		err := e.err
		c.mu.Unlock()
		return nil, err
	}
	if !ok {
		c.entries[key.id] = &entry{state: Loading}
	} else {
		e.state = Loading
	}
	c.mu.Unlock()

	metrics.IncCacheMiss()
	return c.fetchShared(ctx, key, fetch)
}

// Refetch forces a blocking revalidation of key, replacing whatever
// state it held.
func (c *Cache) Refetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	c.mu.Lock()
	if e, ok := c.entries[key.id]; ok {
		e.state = Loading
	} else {
		c.entries[key.id] = &entry{state: Loading}
	}
	c.mu.Unlock()
	return c.fetchShared(ctx, key, fetch)
}

// fetchShared runs fetch through singleflight so at most one request
// per key is in flight, then settles the entry.
func (c *Cache) fetchShared(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	value, err, _ := c.group.Do(key.id, func() (any, error) {
		return fetch(ctx)
	})
	c.settle(key, value, err)
	return value, err
}

// revalidate refreshes a stale key without blocking the caller. The
// fetch is detached from the caller's cancellation; a late result
// simply lands in the cache.
func (c *Cache) revalidate(ctx context.Context, key Key, fetch FetchFunc) {
	detached := context.WithoutCancel(ctx)
	go func() {
		value, err, _ := c.group.Do(key.id, func() (any, error) {
			return fetch(detached)
		})
		c.settle(key, value, err)
	}()
}

func (c *Cache) settle(key Key, value any, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id]
	if !ok {
		e = &entry{}
		c.entries[key.id] = e
	}
	if err != nil {
		// A failed revalidation never clobbers a readable success.
		if e.state == Success {
			return
		}
		e.state = Error
		e.err = err
		e.value = nil
	} else {
		e.state = Success
		e.value = value
		e.err = nil
	}
	e.settledAt = time.Now()
}

// Peek returns the current state machine snapshot for key.
func (c *Cache) Peek(key Key) (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.id]
	if !ok {
		return Snapshot{State: Idle}, false
	}
	return Snapshot{State: e.state, Value: e.value, Err: e.err, Age: time.Since(e.settledAt)}, true
}

// Invalidate removes a single key.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.entries, key.id)
	c.mu.Unlock()
}

// InvalidateAll removes all entries.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[string]*entry)
	c.mu.Unlock()
}

// Get is the typed read-through helper over Cache.Get.
func Get[T any](ctx context.Context, c *Cache, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	value, err := c.Get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, err
	}
	return typed, nil
}
