package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
)

// Cache is a bounded LRU cache of rendered artifacts.
//
// Every method that changes state, including Lookup which refreshes recency,
// runs under a single write lock so that compound steps such as
// insert-then-evict are never observed half done.
type Cache struct {
	mu      sync.RWMutex
	store   *store
	tracker *tracker
	limits  Limits

	hits      int64
	misses    int64
	evictions int64

	now func() time.Time
}

// Stats is a point in time view of the cache
type Stats struct {
	ItemCount      int64    `json:"itemCount"`
	TotalSizeBytes int64    `json:"totalSizeBytes"`
	MaxItems       int64    `json:"maxItems"`
	MaxSizeBytes   int64    `json:"maxSizeBytes"`
	Keys           []string `json:"keys"`
	AccessOrder    []string `json:"accessOrder"`
	Hits           int64    `json:"hits"`
	Misses         int64    `json:"misses"`
	Evictions      int64    `json:"evictions"`
}

// New returns an empty cache bounded by the given limits
func New(limits Limits) (*Cache, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	return &Cache{
		store:   newStore(),
		tracker: newTracker(),
		limits:  limits,
		now:     time.Now,
	}, nil
}

// Lookup returns the entry for k. A hit makes k the most recently used key.
// The returned payload is shared with the cache and must not be modified.
func (c *Cache) Lookup(k Key) (Entry, bool) {
	return c.lookup(k, true)
}

// lookup is Lookup with the miss counter optional, for callers that already
// counted the miss once
func (c *Cache) lookup(k Key, countMiss bool) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.store.get(k)
	if !ok {
		if countMiss {
			c.misses++
		}
		return Entry{}, false
	}

	e.LastUsed = c.now()
	c.tracker.recordAccess(k)
	c.hits++

	c.checkInvariants()
	return *e, true
}

// Store puts the payload into the cache under k, replacing anything already
// there, then evicts least recently used entries until the limits hold.
//
// A payload larger than the byte limit on its own is not stored, and false is
// returned. Any entry already held under k is dropped, other entries are left
// alone.
func (c *Cache) Store(k Key, payload []byte, kind Kind) bool {
	size := int64(len(payload))

	c.mu.Lock()
	defer c.mu.Unlock()

	if size > c.limits.MaxSizeBytes {
		glog.Warningf(
			"Not caching %s: %s %s exceeds cache size limit of %s",
			k,
			kind,
			humanize.Bytes(uint64(size)),
			humanize.Bytes(uint64(c.limits.MaxSizeBytes)),
		)

		// k must not keep answering with the payload it was meant to replace
		c.store.remove(k)
		c.tracker.remove(k)

		c.checkInvariants()
		return false
	}

	c.store.put(k, &Entry{
		Payload:   payload,
		Kind:      kind,
		SizeBytes: size,
		LastUsed:  c.now(),
	})
	c.tracker.recordAccess(k)
	c.enforceLimits()

	c.checkInvariants()
	return true
}

// Stats returns the current counts, limits and key order
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items, size := c.store.stats()

	keys := make([]string, 0, len(c.store.entries))
	for k := range c.store.entries {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	order := c.tracker.keys()
	accessOrder := make([]string, len(order))
	for ii, k := range order {
		accessOrder[ii] = k.String()
	}

	return Stats{
		ItemCount:      items,
		TotalSizeBytes: size,
		MaxItems:       c.limits.MaxItems,
		MaxSizeBytes:   c.limits.MaxSizeBytes,
		Keys:           keys,
		AccessOrder:    accessOrder,
		Hits:           c.hits,
		Misses:         c.misses,
		Evictions:      c.evictions,
	}
}

// Clear drops every entry. Hit, miss and eviction counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, size := c.store.stats()
	c.store.clear()
	c.tracker.clear()

	if glog.V(2) {
		glog.Infof(
			"Cleared cache of %d items (%s)",
			items,
			humanize.Bytes(uint64(size)),
		)
	}

	c.checkInvariants()
}
