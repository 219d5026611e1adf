// Package glyphcache provides the fixed-capacity glyph node cache that sits in
// front of the bundle readers.
//
// The cache is a three-dimensional array [FontHashNR][UnicodeHashNR][NodeHashNR]
// carved once from the region allocator. A (fontId, unicode) pair selects a
// bucket by masking the low bits of each; the bucket's 16 slots are searched
// linearly. When a bucket is full the slot under its Ring cursor is
// overwritten: eviction is round-robin over insertion order, not LRU, and a
// lookup hit never changes which slot goes next.
//
// The bucket hash is plain low-bit masking. Fonts whose ids share the low
// three bits share buckets, and code points 64 apart collide. This is kept
// as-is: indexing stays O(1) and allocation-free.
//
// Concurrency: a Cache is not safe for concurrent use. The font set manager
// serializes every call under its own lock.
package glyphcache

import (
	"github.com/joshuapare/glyphkit/font/alloc"
	"github.com/joshuapare/glyphkit/pkg/types"
)

const (
	// FontHashNR is the number of font buckets; must be a power of two.
	FontHashNR = 8
	// UnicodeHashNR is the number of code point buckets per font bucket; must be a power of two.
	UnicodeHashNR = 64
	// NodeHashNR is the number of slots per bucket.
	NodeHashNR = 16
)

// Entry is one cache slot. Bundle records which registered bundle produced
// the node so bitmap reads go back to the same file even when two bundles
// reuse a numeric font id.
type Entry struct {
	Node   types.GlyphNode
	Bundle uint16
}

// Empty reports whether the slot holds nothing. Code point 0 is the sentinel.
func (e *Entry) Empty() bool { return e.Node.Unicode == 0 }

type bucket [NodeHashNR]Entry

// Stats counts cache traffic since Init.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Inserts   uint64
	Evictions uint64 // inserts that overwrote an occupied slot
}

// Cache is the glyph result cache. The zero value is usable after Init.
type Cache struct {
	nodes [][UnicodeHashNR]bucket // len FontHashNR
	state [][UnicodeHashNR]Ring   // len FontHashNR
	ready bool
	stats Stats
}

// New returns an uninitialized cache.
func New() *Cache {
	return &Cache{}
}

// Init carves the slot and cursor arrays out of r and zeroes them. It is
// idempotent: after a successful call later calls return nil without
// touching the region. An exhausted region yields a capacity error and the
// cache stays unusable; arrays obtained before the failure are kept so a
// retry does not allocate them twice.
func (c *Cache) Init(r *alloc.Region) error {
	if c.ready {
		return nil
	}
	if c.nodes == nil {
		nodes, err := alloc.Make[[UnicodeHashNR]bucket](r, FontHashNR)
		if err != nil {
			return &types.Error{Kind: types.ErrKindCapacity, Msg: "glyph cache nodes", Err: err}
		}
		c.nodes = nodes
	}
	if c.state == nil {
		state, err := alloc.Make[[UnicodeHashNR]Ring](r, FontHashNR)
		if err != nil {
			return &types.Error{Kind: types.ErrKindCapacity, Msg: "glyph cache state", Err: err}
		}
		c.state = state
	}
	c.ready = true
	return nil
}

// Ready reports whether Init succeeded.
func (c *Cache) Ready() bool { return c.ready }

func hash(unicode uint32, fontID types.FontID) (int, int) {
	return int(fontID) & (FontHashNR - 1), int(unicode) & (UnicodeHashNR - 1)
}

// Lookup returns the cached entry for (unicode, fontID). It is a miss when
// the cache is not initialized or unicode is the empty sentinel 0.
func (c *Cache) Lookup(unicode uint32, fontID types.FontID) (Entry, bool) {
	if !c.ready || unicode == 0 {
		return Entry{}, false
	}
	f, u := hash(unicode, fontID)
	b := &c.nodes[f][u]
	for i := range b {
		if b[i].Node.Unicode == unicode && b[i].Node.FontID == fontID {
			c.stats.Hits++
			return b[i], true
		}
	}
	c.stats.Misses++
	return Entry{}, false
}

// Reserve returns the slot the bucket's ring cursor points at and advances
// the cursor. The previous occupant is dropped without notice. The caller
// must fill the slot, including Node.Unicode and Node.FontID, which become
// its key. Reserve returns nil when the cache is not initialized or unicode
// is 0, which can never be cached.
func (c *Cache) Reserve(unicode uint32, fontID types.FontID) *Entry {
	if !c.ready || unicode == 0 {
		return nil
	}
	f, u := hash(unicode, fontID)
	slot := &c.nodes[f][u][c.state[f][u].Next()]
	if !slot.Empty() {
		c.stats.Evictions++
	}
	c.stats.Inserts++
	*slot = Entry{}
	return slot
}

// Store reserves a slot for e's key and copies e into it.
func (c *Cache) Store(e Entry) bool {
	slot := c.Reserve(e.Node.Unicode, e.Node.FontID)
	if slot == nil {
		return false
	}
	*slot = e
	return true
}

// Stats returns the traffic counters.
func (c *Cache) Stats() Stats { return c.stats }
