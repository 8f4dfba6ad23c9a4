// Package promptcache memoizes expensive generations per context-set key.
//
// Entries hold futures, so callers asking for a key while its generation is
// still running share that generation instead of starting another. Each
// write takes a generation number; only the write that is still current
// when its future settles may replace (on success) or evict (on failure)
// the entry.
package promptcache

import (
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a generation stays cached.
const DefaultTTL = 5 * time.Minute

// ErrCleared rejects futures still pending when the cache is cleared.
var ErrCleared = errors.New("prompt cache cleared")

type entry[T any] struct {
	future     *Future[T]
	generation uint64
	stored     time.Time
}

// Cache is safe for concurrent use. Expired entries are swept on every
// write; there is no background janitor.
type Cache[T any] struct {
	mu         sync.Mutex
	items      *cache.Cache
	ttl        time.Duration
	generation uint64
	now        func() time.Time
}

// New creates a cache whose entries live for ttl (DefaultTTL if ttl <= 0).
func New[T any](ttl time.Duration) *Cache[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache[T]{
		// cleanupInterval 0 disables go-cache's janitor goroutine.
		items: cache.New(ttl, 0),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get returns the live future for key, or nil on a miss or expired entry.
func (c *Cache[T]) Get(key string) *Future[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.get(key)
}

func (c *Cache[T]) get(key string) *Future[T] {
	x, ok := c.items.Get(key)
	if !ok {
		return nil
	}
	e := x.(*entry[T])
	if c.now().Sub(e.stored) >= c.ttl {
		return nil
	}
	return e.future
}

// Set stores f under key, superseding any earlier write.
func (c *Cache[T]) Set(key string, f *Future[T]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, f)
}

// SetValue stores an already computed value.
func (c *Cache[T]) SetValue(key string, v T) {
	c.Set(key, Resolved(v))
}

// GetOrStart returns the live future for key. On a miss it stores a new
// pending future and runs generate in its own goroutine to settle it, all
// under one lock, so concurrent callers for the same key trigger exactly
// one generate call.
func (c *Cache[T]) GetOrStart(key string, generate func() (T, error)) *Future[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f := c.get(key); f != nil {
		return f
	}

	f := NewFuture[T]()
	c.set(key, f)
	go func() {
		v, err := generate()
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()
	return f
}

func (c *Cache[T]) set(key string, f *Future[T]) {
	c.sweep()

	c.generation++
	if f.Settled() && f.err != nil {
		c.items.Delete(key)
		return
	}

	e := &entry[T]{future: f, generation: c.generation, stored: c.now()}
	c.items.Set(key, e, c.ttl)

	if !f.Settled() {
		go c.settle(key, e)
	}
}

// sweep purges expired entries across all keys.
func (c *Cache[T]) sweep() {
	c.items.DeleteExpired()
	for key, item := range c.items.Items() {
		if c.now().Sub(item.Object.(*entry[T]).stored) >= c.ttl {
			c.items.Delete(key)
		}
	}
}

// settle waits for e's future and then replaces or evicts e, provided no
// newer write has taken over the key.
func (c *Cache[T]) settle(key string, e *entry[T]) {
	<-e.future.Done()
	v, err := e.future.val, e.future.err

	c.mu.Lock()
	defer c.mu.Unlock()

	x, ok := c.items.Get(key)
	if !ok || x.(*entry[T]).generation != e.generation {
		return
	}

	if err != nil {
		c.items.Delete(key)
		return
	}

	// The resolved entry keeps the original store time, so settling never
	// extends an entry's life.
	remaining := c.ttl - c.now().Sub(e.stored)
	if remaining <= 0 {
		c.items.Delete(key)
		return
	}
	c.items.Set(key, &entry[T]{
		future:     Resolved(v),
		generation: e.generation,
		stored:     e.stored,
	}, remaining)
}

// Clear drops every entry and rejects pending futures with ErrCleared.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, item := range c.items.Items() {
		item.Object.(*entry[T]).future.Reject(ErrCleared)
	}
	c.items.Flush()
}

// Len returns the number of unexpired entries.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, item := range c.items.Items() {
		if c.now().Sub(item.Object.(*entry[T]).stored) < c.ttl {
			n++
		}
	}
	return n
}
