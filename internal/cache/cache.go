// Package cache is a keyed query cache with per-slot freshness, bounded
// retries and supersession of in-flight requests.
package cache

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrSuperseded is returned to a caller whose request was replaced by a
// newer request for a different key in the same slot. Its result must be
// discarded.
var ErrSuperseded = errors.New("request superseded")

// Slot groups requests that replace each other, such as the autocomplete
// suggestions for successive keystrokes.
type Slot string

const (
	SlotAutocomplete Slot = "autocomplete"
	SlotSearch       Slot = "search"
	SlotDetail       Slot = "detail"
	SlotBasicInfo    Slot = "basic"
	SlotNews         Slot = "news"
)

type entry struct {
	value     any
	fetchedAt time.Time
	usedAt    time.Time
}

type flight struct {
	key       string
	cancel    context.CancelFunc
	cancelled bool
}

type QueryCache struct {
	mu      sync.Mutex
	entries map[string]*entry
	flights map[Slot][]*flight
	group   singleflight.Group

	gcAfter time.Duration
	retries int
	backoff time.Duration
	now     func() time.Time
}

// New creates a cache that drops entries unused for gcAfter and retries a
// failed fetch up to retries times.
func New(gcAfter time.Duration, retries int) *QueryCache {
	return &QueryCache{
		entries: make(map[string]*entry),
		flights: make(map[Slot][]*flight),
		gcAfter: gcAfter,
		retries: max(retries, 0),
		backoff: 200 * time.Millisecond,
		now:     time.Now,
	}
}

// Fetch returns the cached value for key when it is younger than stale,
// otherwise calls fn. Starting a fetch for a new key cancels the in-flight
// fetch of the previous key in the same slot; identical concurrent keys
// share one call.
func Fetch[T any](ctx context.Context, c *QueryCache, slot Slot, key string, stale time.Duration,
	fn func(context.Context) (T, error)) (T, error) {
	var zero T
	id := string(slot) + "|" + key

	if v, ok := c.lookup(id, stale); ok {
		if t, ok := v.(T); ok {
			return t, nil
		}
	}

	fctx, f := c.begin(ctx, slot, key)
	defer c.end(slot, f)

	v, err, _ := c.group.Do(id, func() (any, error) {
		return c.retry(fctx, func(ctx context.Context) (any, error) { return fn(ctx) })
	})
	if c.superseded(f) {
		return zero, ErrSuperseded
	}
	if err != nil {
		return zero, err
	}
	c.store(id, v)
	t, _ := v.(T)
	return t, nil
}

func (c *QueryCache) lookup(id string, stale time.Duration) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.collect(now)
	e, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	e.usedAt = now
	if now.Sub(e.fetchedAt) >= stale {
		return nil, false
	}
	return e.value, true
}

func (c *QueryCache) store(id string, v any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	c.entries[id] = &entry{value: v, fetchedAt: now, usedAt: now}
}

func (c *QueryCache) collect(now time.Time) {
	for id, e := range c.entries {
		if now.Sub(e.usedAt) > c.gcAfter {
			delete(c.entries, id)
		}
	}
}

// begin registers a flight for key. Flights for any other key in the slot
// are cancelled and their shared calls forgotten, so a later request for
// one of those keys starts a fresh call instead of joining a dead one.
func (c *QueryCache) begin(ctx context.Context, slot Slot, key string) (context.Context, *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	live := c.flights[slot][:0]
	for _, cur := range c.flights[slot] {
		if cur.key == key {
			live = append(live, cur)
			continue
		}
		cur.cancelled = true
		cur.cancel()
		c.group.Forget(string(slot) + "|" + cur.key)
	}
	fctx, cancel := context.WithCancel(ctx)
	f := &flight{key: key, cancel: cancel}
	c.flights[slot] = append(live, f)
	return fctx, f
}

func (c *QueryCache) end(slot Slot, f *flight) {
	f.cancel()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flights[slot] = slices.DeleteFunc(c.flights[slot], func(cur *flight) bool { return cur == f })
}

func (c *QueryCache) superseded(f *flight) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return f.cancelled
}

func (c *QueryCache) retry(ctx context.Context, fn func(context.Context) (any, error)) (any, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(1<<(attempt-1))):
			}
		}
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}

// Invalidate drops every entry of a slot.
func (c *QueryCache) Invalidate(slot Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := string(slot) + "|"
	for id := range c.entries {
		if strings.HasPrefix(id, prefix) {
			delete(c.entries, id)
		}
	}
}

// Len is the number of cached entries.
func (c *QueryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
