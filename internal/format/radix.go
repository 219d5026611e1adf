package format

import (
	"errors"
	"fmt"

	"github.com/joshuapare/glyphkit/internal/buf"
)

// ErrNoGlyph indicates a radix walk reached an empty slot.
var ErrNoGlyph = errors.New("format: code point not indexed")

// RadixNode is one level of the code point trie: 16 child slots, one per
// nibble value. A zero slot means "absent".
type RadixNode [RadixFanout]uint16

// RadixTable is a font's radix tree; element 0 is the root.
//
// Levels 0..6 hold child node indices. Level 7 holds the 1-based glyph index.
// Because the root is node 0, a zero child slot can never be a valid link.
type RadixTable []RadixNode

// nibble returns the code point bits consumed at level (most significant first).
func nibble(unicode uint32, level int) int {
	shift := 32 - RadixBits*(level+1)
	return int(unicode>>shift) & (RadixFanout - 1)
}

// DecodeRadixTable fills dst from its on-disk form. len(b) must be exactly
// len(dst)*RadixNodeSize.
func DecodeRadixTable(dst RadixTable, b []byte) error {
	if len(b) != len(dst)*RadixNodeSize {
		return fmt.Errorf("radix table: %d bytes for %d nodes: %w", len(b), len(dst), ErrIndexLayout)
	}
	for i := range dst {
		rec := b[i*RadixNodeSize:]
		for s := range RadixFanout {
			dst[i][s] = buf.U16LE(rec[s*2:])
		}
	}
	return nil
}

// EncodeRadixTable writes t in on-disk form into b.
func EncodeRadixTable(b []byte, t RadixTable) error {
	if len(b) < len(t)*RadixNodeSize {
		return fmt.Errorf("radix table: %w", ErrTruncated)
	}
	for i := range t {
		rec := b[i*RadixNodeSize:]
		for s := range RadixFanout {
			buf.PutU16LE(rec[s*2:], t[i][s])
		}
	}
	return nil
}

// Lookup walks the eight levels for unicode and returns the 1-based glyph
// index. It returns ErrNoGlyph for an empty slot and ErrIndexLayout when a
// child link points outside the table.
func (t RadixTable) Lookup(unicode uint32) (uint16, error) {
	if len(t) == 0 {
		return 0, ErrNoGlyph
	}
	node := 0
	for level := range RadixLevels {
		slot := t[node][nibble(unicode, level)]
		if slot == 0 {
			return 0, ErrNoGlyph
		}
		if level == RadixLevels-1 {
			return slot, nil
		}
		if int(slot) >= len(t) {
			return 0, fmt.Errorf("radix level %d link %d of %d: %w", level, slot, len(t), ErrIndexLayout)
		}
		node = int(slot)
	}
	return 0, ErrNoGlyph
}

// Walk calls fn for every indexed code point in ascending order. Links that
// point outside the table or back toward the root are skipped and reported
// through bad, which may be nil.
func (t RadixTable) Walk(fn func(unicode uint32, glyphIndex uint16), bad func(level int, node int, slot uint16)) {
	if len(t) == 0 {
		return
	}
	t.walk(0, 0, 0, fn, bad)
}

func (t RadixTable) walk(node, level int, prefix uint32, fn func(uint32, uint16), bad func(int, int, uint16)) {
	shift := 32 - RadixBits*(level+1)
	for s, slot := range t[node] {
		if slot == 0 {
			continue
		}
		code := prefix | uint32(s)<<shift
		if level == RadixLevels-1 {
			fn(code, slot)
			continue
		}
		// children are always created after their parent
		if int(slot) >= len(t) || int(slot) <= node {
			if bad != nil {
				bad(level, node, slot)
			}
			continue
		}
		t.walk(int(slot), level+1, code, fn, bad)
	}
}

// Insert adds unicode → glyphIndex, growing t as needed. It is used when
// writing bundles; readers never mutate a table.
func (t *RadixTable) Insert(unicode uint32, glyphIndex uint16) error {
	if glyphIndex == 0 {
		return fmt.Errorf("radix insert U+%04X: glyph index 0 is reserved: %w", unicode, ErrIndexLayout)
	}
	if len(*t) == 0 {
		*t = append(*t, RadixNode{})
	}
	node := 0
	for level := range RadixLevels - 1 {
		n := nibble(unicode, level)
		next := (*t)[node][n]
		if next == 0 {
			if len(*t) >= RadixMaxNodes {
				return fmt.Errorf("radix insert U+%04X: table full: %w", unicode, ErrIndexLayout)
			}
			next = uint16(len(*t))
			*t = append(*t, RadixNode{})
			(*t)[node][n] = next
		}
		node = int(next)
	}
	(*t)[node][nibble(unicode, RadixLevels-1)] = glyphIndex
	return nil
}
