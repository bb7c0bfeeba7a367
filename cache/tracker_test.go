package cache

import (
	"testing"
)

func TestTracker(t *testing.T) {
	tr := newTracker()

	if _, ok := tr.evictionCandidate(); ok {
		t.Fatal("empty tracker should have no eviction candidate")
	}

	a, b, c := Key{1}, Key{2}, Key{3}
	tr.recordAccess(a)
	tr.recordAccess(b)
	tr.recordAccess(c)

	if k, _ := tr.evictionCandidate(); k != a {
		t.Errorf("evictionCandidate() = %s should be %s", k, a)
	}

	// Touching a moves it to the most recently used end without duplicating
	tr.recordAccess(a)
	if tr.len() != 3 {
		t.Errorf("len() = %d should be 3", tr.len())
	}
	if k, _ := tr.evictionCandidate(); k != b {
		t.Errorf("evictionCandidate() = %s should be %s", k, b)
	}

	want := []Key{b, c, a}
	got := tr.keys()
	if len(got) != len(want) {
		t.Fatalf("keys() returned %d keys, want %d", len(got), len(want))
	}
	for ii := range want {
		if got[ii] != want[ii] {
			t.Errorf("keys()[%d] = %s should be %s", ii, got[ii], want[ii])
		}
	}

	tr.remove(b)
	tr.remove(b)
	if k, _ := tr.evictionCandidate(); k != c {
		t.Errorf("evictionCandidate() = %s should be %s", k, c)
	}
	if len(tr.index) != 2 {
		t.Errorf("index has %d keys, should have 2", len(tr.index))
	}

	tr.clear()
	if tr.len() != 0 || len(tr.index) != 0 {
		t.Error("clear() should empty both the list and the index")
	}
}

func TestStoreSizeBookkeeping(t *testing.T) {
	s := newStore()

	s.put(Key{1}, &Entry{Payload: []byte("abc"), SizeBytes: 3})
	s.put(Key{2}, &Entry{Payload: []byte("de"), SizeBytes: 2})
	s.put(Key{1}, &Entry{Payload: []byte("a"), SizeBytes: 1})

	items, size := s.stats()
	if items != 2 || size != 3 {
		t.Errorf("stats() = (%d, %d) should be (2, 3)", items, size)
	}

	s.remove(Key{2})
	s.remove(Key{9})
	items, size = s.stats()
	if items != 1 || size != 1 {
		t.Errorf("stats() = (%d, %d) should be (1, 1)", items, size)
	}

	s.clear()
	items, size = s.stats()
	if items != 0 || size != 0 {
		t.Errorf("stats() = (%d, %d) should be (0, 0)", items, size)
	}
}
