package cache

import (
	"errors"
	"fmt"

	"github.com/golang/glog"
)

// ErrInvalidLimit is returned when a limit is zero or negative
var ErrInvalidLimit = errors.New("cache limits must be positive")

// Limits bounds the cache by item count and total payload bytes
type Limits struct {
	MaxItems     int64 `json:"maxItems"`
	MaxSizeBytes int64 `json:"maxSizeBytes"`
}

// Validate returns ErrInvalidLimit unless both limits are positive
func (l Limits) Validate() error {
	if l.MaxItems <= 0 {
		return fmt.Errorf("%w: maxItems %d", ErrInvalidLimit, l.MaxItems)
	}
	if l.MaxSizeBytes <= 0 {
		return fmt.Errorf("%w: maxSizeBytes %d", ErrInvalidLimit, l.MaxSizeBytes)
	}
	return nil
}

// Limits returns the limits currently in force
func (c *Cache) Limits() Limits {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.limits
}

// UpdateLimits changes either or both limits. A nil argument leaves that limit
// as it is. If any supplied value is invalid nothing is changed. On success the
// cache is shrunk to fit before UpdateLimits returns.
func (c *Cache) UpdateLimits(maxItems *int64, maxSizeBytes *int64) (Limits, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.limits
	if maxItems != nil {
		next.MaxItems = *maxItems
	}
	if maxSizeBytes != nil {
		next.MaxSizeBytes = *maxSizeBytes
	}

	if err := next.Validate(); err != nil {
		return c.limits, err
	}

	c.limits = next
	evicted := c.enforceLimits()

	if glog.V(2) {
		glog.Infof(
			"Cache limits now %d items / %d bytes, evicted %d",
			next.MaxItems,
			next.MaxSizeBytes,
			evicted,
		)
	}

	c.checkInvariants()
	return next, nil
}
