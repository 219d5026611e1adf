package glyphcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/glyphkit/font/alloc"
	"github.com/joshuapare/glyphkit/pkg/types"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	r := alloc.New()
	require.True(t, r.SetRegion(make([]byte, 1<<20)))
	c := New()
	require.NoError(t, c.Init(r))
	return c
}

func put(c *Cache, unicode uint32, fontID types.FontID, advance uint16) {
	slot := c.Reserve(unicode, fontID)
	slot.Node = types.GlyphNode{Unicode: unicode, FontID: fontID, Advance: advance}
}

// sameBucket returns the i-th code point that hashes to bucket u.
func sameBucket(u, i int) uint32 {
	return uint32(u + (i+1)*UnicodeHashNR)
}

func TestCache_MissOnEmpty(t *testing.T) {
	c := newTestCache(t)
	_, ok := c.Lookup(0x41, 7)
	assert.False(t, ok)
	assert.Equal(t, uint64(1), c.Stats().Misses)
}

func TestCache_StoreThenLookup(t *testing.T) {
	c := newTestCache(t)
	put(c, 0x41, 7, 10)

	e, ok := c.Lookup(0x41, 7)
	require.True(t, ok)
	assert.Equal(t, uint16(10), e.Node.Advance)

	// Same code point under another font is a different key.
	_, ok = c.Lookup(0x41, 6)
	assert.False(t, ok)
	// Font 15 shares font 7's bucket but must not match.
	_, ok = c.Lookup(0x41, 15)
	assert.False(t, ok)
}

func TestCache_BundleIsCarried(t *testing.T) {
	c := newTestCache(t)
	require.True(t, c.Store(Entry{Node: types.GlyphNode{Unicode: 0x42, FontID: 3}, Bundle: 2}))

	e, ok := c.Lookup(0x42, 3)
	require.True(t, ok)
	assert.Equal(t, uint16(2), e.Bundle)
}

// TestCache_RoundRobinNotLRU fills one bucket, keeps touching its oldest
// entry, and checks that the oldest entry is still the one evicted.
func TestCache_RoundRobinNotLRU(t *testing.T) {
	c := newTestCache(t)
	const fontID = 7
	const u = 0x21

	for i := range NodeHashNR {
		put(c, sameBucket(u, i), fontID, uint16(i))
	}
	for i := range NodeHashNR {
		_, ok := c.Lookup(sameBucket(u, i), fontID)
		require.True(t, ok, "entry %d should be cached before overflow", i)
	}

	// An LRU cache would now protect entry 0.
	for range 5 {
		_, ok := c.Lookup(sameBucket(u, 0), fontID)
		require.True(t, ok)
	}

	put(c, sameBucket(u, NodeHashNR), fontID, 99)

	_, ok := c.Lookup(sameBucket(u, 0), fontID)
	assert.False(t, ok, "first inserted entry must be evicted regardless of use")
	for i := 1; i <= NodeHashNR; i++ {
		_, ok := c.Lookup(sameBucket(u, i), fontID)
		assert.True(t, ok, "entry %d should survive", i)
	}
	assert.Equal(t, uint64(1), c.Stats().Evictions)
}

func TestCache_BucketsAreIndependent(t *testing.T) {
	c := newTestCache(t)
	put(c, 0x41, 1, 1)
	// Overflow an unrelated bucket.
	for i := range NodeHashNR * 2 {
		put(c, sameBucket(0x05, i), 1, 0)
	}
	_, ok := c.Lookup(0x41, 1)
	assert.True(t, ok)
}

func TestCache_ZeroIsNeverCached(t *testing.T) {
	c := newTestCache(t)
	assert.Nil(t, c.Reserve(0, 1))
	assert.False(t, c.Store(Entry{Node: types.GlyphNode{Unicode: 0, FontID: 1}}))
	_, ok := c.Lookup(0, 1)
	assert.False(t, ok)
}

func TestCache_InitIdempotent(t *testing.T) {
	r := alloc.New()
	require.True(t, r.SetRegion(make([]byte, 1<<20)))
	c := New()

	require.NoError(t, c.Init(r))
	used := r.UsedBytes()
	require.NoError(t, c.Init(r))
	assert.Equal(t, used, r.UsedBytes(), "second Init must not allocate")
}

func TestCache_InitFailsOnSmallRegion(t *testing.T) {
	r := alloc.New()
	require.True(t, r.SetRegion(make([]byte, 4096)))
	c := New()

	err := c.Init(r)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrCapacity)
	assert.ErrorIs(t, err, alloc.ErrNoSpace)
	assert.False(t, c.Ready())

	assert.Nil(t, c.Reserve(0x41, 1))
	_, ok := c.Lookup(0x41, 1)
	assert.False(t, ok)
}

func TestRing_Wraps(t *testing.T) {
	var r Ring
	for i := range NodeHashNR {
		assert.Equal(t, i, r.Peek())
		assert.Equal(t, i, r.Next())
	}
	assert.Equal(t, 0, r.Next(), "cursor must wrap to slot 0")
}
