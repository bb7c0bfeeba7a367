package cache

import (
	"container/list"
)

// tracker keeps live keys in recency order. The front of the list is the
// least recently used key and the back is the most recently used. The index
// makes every operation O(1).
type tracker struct {
	order *list.List
	index map[Key]*list.Element
}

func newTracker() *tracker {
	return &tracker{
		order: list.New(),
		index: make(map[Key]*list.Element),
	}
}

// recordAccess marks k as the most recently used key, adding it if it is not
// yet tracked
func (t *tracker) recordAccess(k Key) {
	if el, ok := t.index[k]; ok {
		t.order.MoveToBack(el)
		return
	}
	t.index[k] = t.order.PushBack(k)
}

// evictionCandidate returns the least recently used key
func (t *tracker) evictionCandidate() (Key, bool) {
	el := t.order.Front()
	if el == nil {
		return Key{}, false
	}
	return el.Value.(Key), true
}

func (t *tracker) remove(k Key) {
	if el, ok := t.index[k]; ok {
		t.order.Remove(el)
		delete(t.index, k)
	}
}

func (t *tracker) clear() {
	t.order.Init()
	clear(t.index)
}

func (t *tracker) len() int {
	return t.order.Len()
}

// keys returns the tracked keys, oldest first
func (t *tracker) keys() []Key {
	keys := make([]Key, 0, t.order.Len())
	for el := t.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(Key))
	}
	return keys
}
