package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/strategit/core"
)

func TestCacheGetSet(t *testing.T) {
	c, err := New[string](10, 1000)
	require.NoError(t, err)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", "hello", 5)
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "hello", got)

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, int64(5), stats.UsedBytes)
}

func TestCacheRejectsBadCaps(t *testing.T) {
	_, err := New[string](0, 100)
	assert.Error(t, err)
	_, err = New[string](10, 0)
	assert.Error(t, err)
}

func TestCacheEntryCapEviction(t *testing.T) {
	c, err := New[int](3, 1000)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		c.Set(fmt.Sprintf("k%d", i), i, 10)
	}

	assert.Equal(t, 3, c.Len())
	_, ok := c.Get("k0")
	assert.False(t, ok)
	_, ok = c.Get("k4")
	assert.True(t, ok)
	assert.Equal(t, int64(30), c.Stats().UsedBytes)
}

func TestCacheByteCapEvictsBeforeInsert(t *testing.T) {
	c, err := New[string](10, 100)
	require.NoError(t, err)

	c.Set("a", "x", 60)
	c.Set("b", "y", 30)
	require.Equal(t, int64(90), c.Stats().UsedBytes)

	// 90 + 40 > 100: "a" (oldest) must go before the insert.
	c.Set("c", "z", 40)

	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, int64(70), c.Stats().UsedBytes)
}

func TestCacheOversizedItemNotRetained(t *testing.T) {
	c, err := New[string](10, 100)
	require.NoError(t, err)

	c.Set("small", "s", 10)
	c.Set("huge", "h", 200)

	_, ok := c.Get("huge")
	assert.False(t, ok)
	// The small entry survives.
	_, ok = c.Get("small")
	assert.True(t, ok)
	assert.Equal(t, int64(10), c.Stats().UsedBytes)
}

func TestCacheReplaceReleasesBytes(t *testing.T) {
	c, err := New[string](10, 100)
	require.NoError(t, err)

	c.Set("a", "first", 80)
	c.Set("a", "second", 30)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "second", got)
	assert.Equal(t, int64(30), c.Stats().UsedBytes)
	assert.Equal(t, 1, c.Len())
}

func TestCacheAccountingNeverNegative(t *testing.T) {
	c, err := New[string](2, 100)
	require.NoError(t, err)

	c.Set("a", "x", 50)
	c.Set("b", "y", 50)
	c.Set("c", "z", 50)
	c.Clear()

	assert.Equal(t, int64(0), c.Stats().UsedBytes)
	assert.GreaterOrEqual(t, c.Stats().UsedBytes, int64(0))
}

func TestCacheClearResetsCounters(t *testing.T) {
	c, err := New[string](10, 100)
	require.NoError(t, err)

	c.Set("a", "x", 10)
	c.Get("a")
	c.Get("missing")

	c.Clear()

	stats := c.Stats()
	assert.Equal(t, uint64(0), stats.Hits)
	assert.Equal(t, uint64(0), stats.Misses)
	assert.Equal(t, 0, stats.Entries)
	assert.Equal(t, int64(0), stats.UsedBytes)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestKeyDerivation(t *testing.T) {
	weights := core.NewWeightVector(0.4, 0.4, 0.2)

	t.Run("query keys depend on weights", func(t *testing.T) {
		other := core.NewWeightVector(0.7, 0.2, 0.1)
		assert.NotEqual(t, QueryKey("q", weights), QueryKey("q", other))
		assert.Equal(t, QueryKey("q", weights), QueryKey("q", weights.Clone()))
	})

	t.Run("backend keys depend on topK", func(t *testing.T) {
		assert.NotEqual(t,
			BackendKey("q", core.BackendDense, 5),
			BackendKey("q", core.BackendDense, 10))
		assert.NotEqual(t,
			BackendKey("q", core.BackendDense, 5),
			BackendKey("q", core.BackendKeyword, 5))
	})

	t.Run("part boundaries matter", func(t *testing.T) {
		assert.NotEqual(t, hashKey("ab", "c"), hashKey("a", "bc"))
	})
}

func TestQueryCache(t *testing.T) {
	qc, err := NewQueryCache[string](10, 1000)
	require.NoError(t, err)

	weights := core.NewWeightVector(0.4, 0.4, 0.2)
	qc.Set("what is Go", weights, "answer", 6)

	got, ok := qc.Get("what is Go", weights)
	assert.True(t, ok)
	assert.Equal(t, "answer", got)

	// Different weights are a different strategy, hence a miss.
	_, ok = qc.Get("what is Go", core.NewWeightVector(0.7, 0.2, 0.1))
	assert.False(t, ok)

	qc.Clear()
	assert.Equal(t, Stats{MaxBytes: 1000}, qc.Stats())
}

func TestBackendCache(t *testing.T) {
	bc, err := NewBackendCache(10, 10000)
	require.NoError(t, err)

	passages := []core.RetrievedPassage{
		{Content: "Go is a language", Title: "Go", Backend: core.BackendKeyword, RawScore: 0.9},
	}
	bc.Set("what is Go", core.BackendKeyword, 5, passages)

	got, ok := bc.Get("what is Go", core.BackendKeyword, 5)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "Go is a language", got[0].Content)

	assert.Equal(t, PassagesSize(passages), bc.Stats().UsedBytes)

	_, ok = bc.Get("what is Go", core.BackendKeyword, 10)
	assert.False(t, ok)
}

func TestPassagesSize(t *testing.T) {
	assert.Equal(t, int64(0), PassagesSize(nil))

	passages := []core.RetrievedPassage{
		{Content: "abcd", Title: "t"},
		{Content: "xy", Title: ""},
	}
	assert.Equal(t, int64(4+1+128+2+0+128), PassagesSize(passages))
}
