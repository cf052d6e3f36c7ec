// Package query provides the process-wide read cache. Entries are advisory:
// a hit is a staleness trade the caller opted into, and any mutating action
// may invalidate entries by key at any time.
package query

import (
	"strings"
	"sync"
	"time"

	"github.com/Plabrum/managerlab-sub002/internal/models"
)

// DefaultObjectTTL is the staleness window for object list/detail entries.
// Session-scoped entries (current user, team metadata) use no TTL and live
// until invalidated.
const DefaultObjectTTL = 30 * time.Second

type entry struct {
	value    any
	storedAt time.Time
	ttl      time.Duration // 0 = no expiry, invalidation only
}

// Cache is a mutex-guarded key/value store with per-entry TTLs. One Cache
// is shared by every view in the process, so an action executed anywhere
// refreshes every list that shows its object type.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get returns the cached value for key if present and within its staleness
// window.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if e.ttl > 0 && c.now().Sub(e.storedAt) >= e.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with the default object staleness window.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, DefaultObjectTTL)
}

// SetSession stores a session-scoped value: cached until invalidated.
func (c *Cache) SetSession(key string, value any) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL stores value under key with an explicit staleness window.
// ttl 0 means no expiry.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: ttl}
}

// Invalidate drops every entry matching any of the given keys. A key
// matches itself exactly and, treated as a prefix, every entry under
// "<key>:". Invalidation is never skipped: unknown keys are simply no-ops.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		delete(c.entries, key)
		prefix := key + ":"
		for k := range c.entries {
			if strings.HasPrefix(k, prefix) {
				delete(c.entries, k)
			}
		}
	}
}

// Len reports the number of live entries, expired ones included until read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// ListKey is the cache key for one page of a collection. encodedQuery is
// ListRequest.Encode()'s output, so identical view-state maps to an
// identical key.
func ListKey(objectType models.ObjectType, encodedQuery string) string {
	return string(objectType) + ":list:" + encodedQuery
}

// DetailKey is the cache key for one object's detail view.
func DetailKey(objectType models.ObjectType, id string) string {
	return string(objectType) + ":detail:" + id
}

// SessionKey is the cache key for session-scoped metadata.
func SessionKey(name string) string {
	return "session:" + name
}

// ObjectKeys returns the invalidation keys covering everything cached for
// an object type: the bare type key prefixes both its lists and details.
func ObjectKeys(objectType models.ObjectType) []string {
	return []string{string(objectType)}
}
