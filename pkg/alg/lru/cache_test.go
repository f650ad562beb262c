package lru_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/coality/pkg/alg/lru"
)

const (
	// smallMaxEntries limits the cache to 3 entries for eviction tests.
	smallMaxEntries = 3

	testConcurrentGoroutines = 20
	testConcurrentOps        = 100
)

func TestCache_GetPut(t *testing.T) {
	t.Parallel()

	c := lru.New[string, int](smallMaxEntries)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Stats().Entries)

	c.Put("a", 10)

	v, ok = c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Stats().Entries)
}

func TestCache_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := lru.New[string, int](smallMaxEntries)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	// Touch "a" so "b" becomes the eviction victim.
	_, _ = c.Get("a")

	c.Put("d", 4)

	assert.Equal(t, smallMaxEntries, c.Stats().Entries)

	_, ok := c.Get("b")
	assert.False(t, ok)

	for _, key := range []string{"a", "c", "d"} {
		_, ok = c.Get(key)
		assert.True(t, ok, key)
	}
}

func TestCache_GetOrCompute(t *testing.T) {
	t.Parallel()

	c := lru.New[string, int](smallMaxEntries)
	calls := 0
	compute := func(k string) int {
		calls++

		return len(k)
	}

	assert.Equal(t, 5, c.GetOrCompute("hello", compute))
	assert.Equal(t, 5, c.GetOrCompute("hello", compute))
	assert.Equal(t, 1, calls)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-9)
}

func TestCache_NewPanicsWithoutCapacity(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { lru.New[int, int](0) })
}

func TestStats_HitRateEmpty(t *testing.T) {
	t.Parallel()

	assert.Zero(t, lru.Stats{}.HitRate())
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()

	c := lru.New[string, int](smallMaxEntries * 10)

	var wg sync.WaitGroup

	for g := range testConcurrentGoroutines {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range testConcurrentOps {
				key := fmt.Sprintf("k%d", (g+i)%50)
				c.Put(key, i)
				_, _ = c.Get(key)
			}
		}()
	}

	wg.Wait()

	assert.LessOrEqual(t, c.Stats().Entries, smallMaxEntries*10)
}
