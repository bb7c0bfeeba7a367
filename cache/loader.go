package cache

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Status says how a Loader satisfied a request
type Status uint8

const (
	// Miss means the artifact was computed for this request
	Miss Status = iota
	// Hit means the artifact came from the cache
	Hit
	// Shared means another request computed the artifact while this one
	// waited for it
	Shared
)

func (s Status) String() string {
	switch s {
	case Hit:
		return "HIT"
	case Shared:
		return "SHARED"
	default:
		return "MISS"
	}
}

// ComputeFunc produces the artifact for a key on a cache miss
type ComputeFunc func(ctx context.Context) ([]byte, Kind, error)

// Loader fronts a Cache with a compute-on-miss step. The computation always
// runs outside the cache lock.
//
// With coalescing enabled, concurrent misses for the same key wait on one
// computation. Without it each miss computes independently and the last store
// wins, which costs time but not correctness.
type Loader struct {
	cache    *Cache
	coalesce bool
	flights  singleflight.Group
}

// NewLoader returns a Loader reading from and filling c
func NewLoader(c *Cache, coalesce bool) *Loader {
	return &Loader{cache: c, coalesce: coalesce}
}

// Cache returns the underlying cache
func (l *Loader) Cache() *Cache {
	return l.cache
}

// Get returns the artifact for k, computing and storing it on a miss. Errors
// from compute are returned as they are and nothing is stored.
func (l *Loader) Get(
	ctx context.Context,
	k Key,
	compute ComputeFunc,
) (
	Entry,
	Status,
	error,
) {
	if e, ok := l.cache.Lookup(k); ok {
		return e, Hit, nil
	}

	if !l.coalesce {
		e, err := l.fill(ctx, k, compute)
		return e, Miss, err
	}

	// Waiters must not be failed by the caller that happened to start the
	// flight going away, so the shared computation drops cancellation.
	var executed bool
	v, err, _ := l.flights.Do(k.String(), func() (interface{}, error) {
		executed = true

		// A flight for k may have finished between our Lookup and Do
		if e, ok := l.cache.lookup(k, false); ok {
			return flight{entry: e, status: Hit}, nil
		}

		e, err := l.fill(context.WithoutCancel(ctx), k, compute)
		return flight{entry: e, status: Miss}, err
	})
	if err != nil {
		return Entry{}, Miss, err
	}

	f := v.(flight)
	if !executed {
		f.status = Shared
	}
	return f.entry, f.status, nil
}

type flight struct {
	entry  Entry
	status Status
}

func (l *Loader) fill(ctx context.Context, k Key, compute ComputeFunc) (Entry, error) {
	payload, kind, err := compute(ctx)
	if err != nil {
		return Entry{}, err
	}

	l.cache.Store(k, payload, kind)

	return Entry{
		Payload:   payload,
		Kind:      kind,
		SizeBytes: int64(len(payload)),
		LastUsed:  l.cache.now(),
	}, nil
}
