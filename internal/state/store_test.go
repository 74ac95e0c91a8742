package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStore_SetAndGet(t *testing.T) {
	store := NewStore()

	store.Set("slider-1", 5)
	assert.Equal(t, 5, store.Get("slider-1", nil))

	// Last write wins, no versioning.
	store.Set("slider-1", 9)
	assert.Equal(t, 9, store.Get("slider-1", nil))
}

func TestStore_GetDefault(t *testing.T) {
	store := NewStore()

	assert.Nil(t, store.Get("missing", nil))
	assert.Equal(t, "fallback", store.Get("missing", "fallback"))
}

func TestStore_ClearAll(t *testing.T) {
	store := NewStore()
	store.Set("a", 1)
	store.Set("b", 2)

	store.ClearAll()

	assert.Equal(t, 0, store.Len())
	assert.Equal(t, "default", store.Get("a", "default"))
}

func TestStore_Snapshot(t *testing.T) {
	store := NewStore()
	store.Set("a", 1)

	snap := store.Snapshot()
	store.Set("a", 2)
	store.Set("b", 3)

	// The snapshot is detached from later writes.
	assert.Equal(t, map[string]any{"a": 1}, snap)
}

// Concurrent writers on disjoint identifiers must each read back a value
// that was actually written for their own identifier, never a value from
// a different identifier.
func TestStore_ConcurrentDisjointWriters(t *testing.T) {
	store := NewStore()

	const writers = 16
	const iterations = 200

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			id := fmt.Sprintf("component-%d", w)
			for i := 0; i < iterations; i++ {
				store.Set(id, w*1000+i)
				got := store.Get(id, nil)
				value, ok := got.(int)
				if !ok {
					t.Errorf("torn read for %s: %v", id, got)
					return
				}
				if value/1000 != w {
					t.Errorf("value %d leaked into %s", value, id)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, writers, store.Len())
}

func TestStore_ConcurrentReadersDuringWrites(t *testing.T) {
	store := NewStore()
	store.Set("shared", 0)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 1; i <= 500; i++ {
			store.Set("shared", i)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			got := store.Get("shared", nil)
			if _, ok := got.(int); !ok {
				t.Errorf("reader observed non-written value: %v", got)
				return
			}
		}
	}()
	wg.Wait()
}
