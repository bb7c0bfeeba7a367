package cache

import (
	"github.com/golang/glog"
)

// enforceLimits evicts least recently used entries until both the item and
// byte limits hold. It does nothing when they already hold.
//
// The caller must hold the write lock.
func (c *Cache) enforceLimits() int {
	var evicted int

	for {
		items, size := c.store.stats()
		if items == 0 ||
			(items <= c.limits.MaxItems && size <= c.limits.MaxSizeBytes) {
			break
		}

		k, ok := c.tracker.evictionCandidate()
		if !ok {
			// store and tracker disagree, checkInvariants reports it
			break
		}

		if glog.V(2) {
			if e, ok := c.store.get(k); ok {
				glog.Infof("Evicting %s (%s, %d bytes)", k, e.Kind, e.SizeBytes)
			}
		}

		c.store.remove(k)
		c.tracker.remove(k)
		evicted++
	}

	c.evictions += int64(evicted)
	return evicted
}
