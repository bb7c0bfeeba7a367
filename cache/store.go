package cache

import (
	"time"
)

// Kind is the content type of a cached artifact
type Kind uint8

const (
	KindJSON Kind = iota + 1
	KindSVG
)

// ContentType returns the media type the artifact is served with
func (k Kind) ContentType() string {
	switch k {
	case KindJSON:
		return "application/json"
	case KindSVG:
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

func (k Kind) String() string {
	switch k {
	case KindJSON:
		return "json"
	case KindSVG:
		return "svg"
	default:
		return "unknown"
	}
}

// Entry is a cached artifact. SizeBytes is always len(Payload).
type Entry struct {
	Payload   []byte
	Kind      Kind
	SizeBytes int64
	LastUsed  time.Time
}

// store is the key/value half of the cache. It keeps a running byte total so
// that stats never have to walk the map. It is not safe for concurrent use;
// Cache serialises access to it.
type store struct {
	entries   map[Key]*Entry
	totalSize int64
}

func newStore() *store {
	return &store{entries: make(map[Key]*Entry)}
}

func (s *store) get(k Key) (*Entry, bool) {
	e, ok := s.entries[k]
	return e, ok
}

// put inserts or replaces the entry for k
func (s *store) put(k Key, e *Entry) {
	if old, ok := s.entries[k]; ok {
		s.totalSize -= old.SizeBytes
	}
	s.entries[k] = e
	s.totalSize += e.SizeBytes
}

func (s *store) remove(k Key) {
	if old, ok := s.entries[k]; ok {
		s.totalSize -= old.SizeBytes
		delete(s.entries, k)
	}
}

func (s *store) clear() {
	clear(s.entries)
	s.totalSize = 0
}

func (s *store) stats() (int64, int64) {
	return int64(len(s.entries)), s.totalSize
}
