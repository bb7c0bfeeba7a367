package cache

import (
	"fmt"
)

// checkInvariants panics if the store and the tracker have drifted apart or
// the limits are exceeded. Builds tagged production skip the check entirely.
//
// The caller must hold the lock.
func (c *Cache) checkInvariants() {
	if !assertInvariants {
		return
	}

	items, size := c.store.stats()

	if int(items) != c.tracker.len() || len(c.tracker.index) != c.tracker.len() {
		panic(fmt.Sprintf(
			"cache: store holds %d keys, tracker holds %d (index %d)",
			items,
			c.tracker.len(),
			len(c.tracker.index),
		))
	}

	if items > c.limits.MaxItems {
		panic(fmt.Sprintf("cache: %d items exceeds limit %d", items, c.limits.MaxItems))
	}
	if size > c.limits.MaxSizeBytes {
		panic(fmt.Sprintf("cache: %d bytes exceeds limit %d", size, c.limits.MaxSizeBytes))
	}
}
