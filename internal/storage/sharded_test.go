package storage

import (
	"sort"
	"sync"
	"testing"
)

func TestShardedSetGet(t *testing.T) {
	s := NewSharded[string, int](8, nil)

	if _, ok := s.Get("a"); ok {
		t.Error("Get on empty map reported a hit")
	}

	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("a", 3)

	if v, ok := s.Get("a"); !ok || v != 3 {
		t.Errorf("Get(a) = %v, %v, want 3, true", v, ok)
	}
	if v, ok := s.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = %v, %v, want 2, true", v, ok)
	}
	if s.Count() != 2 {
		t.Errorf("Count = %d, want 2", s.Count())
	}
}

func TestShardedIntKeys(t *testing.T) {
	s := NewSharded[int, string](4, nil)

	for i := 0; i < 64; i++ {
		s.Set(i, "v")
	}
	if s.Count() != 64 {
		t.Errorf("Count = %d, want 64", s.Count())
	}
	for i := 0; i < 64; i++ {
		if _, ok := s.Get(i); !ok {
			t.Fatalf("missing key %d", i)
		}
	}
}

func TestShardedGetDirty(t *testing.T) {
	s := NewSharded[string, int](8, nil)

	s.Set("a", 1)
	s.Set("b", 2)

	dirty := s.GetDirty()
	if len(dirty) != 2 || dirty["a"] != 1 || dirty["b"] != 2 {
		t.Errorf("first drain = %v, want a:1 b:2", dirty)
	}

	// A second drain with no writes in between is empty.
	if dirty := s.GetDirty(); len(dirty) != 0 {
		t.Errorf("second drain = %v, want empty", dirty)
	}

	// Only the rewritten key comes back.
	s.Set("a", 9)
	dirty = s.GetDirty()
	if len(dirty) != 1 || dirty["a"] != 9 {
		t.Errorf("third drain = %v, want a:9", dirty)
	}

	if s.Count() != 2 {
		t.Errorf("Count after drains = %d, want 2", s.Count())
	}
}

func TestShardedGetAllValues(t *testing.T) {
	s := NewSharded[string, int](8, nil)
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("c", 3)

	values := s.GetAllValues()
	sort.Ints(values)
	if len(values) != 3 || values[0] != 1 || values[1] != 2 || values[2] != 3 {
		t.Errorf("GetAllValues = %v, want [1 2 3]", values)
	}
}

func TestShardedForEach(t *testing.T) {
	s := NewSharded[string, int](8, nil)
	s.Set("a", 1)
	s.Set("b", 2)
	s.Set("c", 3)

	seen := map[string]int{}
	s.ForEach(func(k string, v int) bool {
		seen[k] = v
		return true
	})
	if len(seen) != 3 || seen["a"] != 1 || seen["b"] != 2 || seen["c"] != 3 {
		t.Errorf("ForEach visited %v, want all three entries", seen)
	}

	// Early termination stops the walk.
	visits := 0
	s.ForEach(func(k string, v int) bool {
		visits++
		return false
	})
	if visits != 1 {
		t.Errorf("ForEach after early stop visited %d entries, want 1", visits)
	}
}

func TestShardedConcurrentWrites(t *testing.T) {
	s := NewSharded[int, int](16, nil)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(base int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.Set(base*100+i, i)
			}
		}(w)
	}
	wg.Wait()

	if s.Count() != 800 {
		t.Errorf("Count = %d, want 800", s.Count())
	}
}
