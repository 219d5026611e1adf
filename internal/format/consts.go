// Package format houses low-level codecs for the glyph bundle file format.
// The goal is to keep parsing focused, allocation-free where possible, and
// independent from the public API so higher-level packages can orchestrate
// the data in a more ergonomic form.
//
// A bundle is laid out as:
//
//	[BinHeader] [FontHeader x fontNum] [radix tables] [glyph-node tables] [bitmap blob]
//
// All integers are little-endian.
package format

// Magic is the eight-byte signature at the start of every bundle.
var Magic = []byte{'G', 'L', 'Y', 'P', 'H', 'B', 'I', 'N'}

// ============================================================================
// BinHeader
// ============================================================================
//
//	Offset  Size  Description
//	------  ----  ---------------------------------------------
//	 0x00    8    'G' 'L' 'Y' 'P' 'H' 'B' 'I' 'N'
//	 0x08   20    version string, NUL padded
//	 0x1C    2    fontNum
//	 0x1E    2    reserved
const (
	BinMagicOffset    = 0x00
	BinMagicSize      = 8
	BinVersionOffset  = 0x08
	BinVersionSize    = 20
	BinFontNumOffset  = 0x1C
	BinReservedOffset = 0x1E

	BinHeaderSize = 0x20
)

// ============================================================================
// FontHeader
// ============================================================================
const (
	FontIDOffset          = 0x00 // u16
	FontHeightOffset      = 0x02 // u16
	FontAscenderOffset    = 0x04 // i16
	FontDescenderOffset   = 0x06 // i16
	FontIndexOffsetOffset = 0x08 // u32, relative to the index section
	FontIndexLenOffset    = 0x0C // u32, bytes
	FontGlyphNumOffset    = 0x10 // u32
	FontGlyphOffsetOffset = 0x14 // u32, relative to the bitmap blob
	FontNameOffset        = 0x18 // [32]byte ISO-8859-1, NUL padded
	FontNameSize          = 32

	FontHeaderSize = FontNameOffset + FontNameSize // 0x38
)

// ============================================================================
// Radix node
// ============================================================================
const (
	// RadixBits is the number of code point bits consumed per level.
	RadixBits = 4
	// RadixFanout is the number of child slots per node.
	RadixFanout = 1 << RadixBits
	// RadixLevels is the depth of the tree (32 / 4).
	RadixLevels = 32 / RadixBits
	// RadixNodeSize is the on-disk size of one node: 16 little-endian u16 slots.
	RadixNodeSize = RadixFanout * 2
	// RadixMaxNodes bounds a font's table; child slots are u16 indices.
	RadixMaxNodes = 1 << 16
)

// ============================================================================
// GlyphNode
// ============================================================================
const (
	NodeUnicodeOffset  = 0x00 // u32
	NodeLeftOffset     = 0x04 // i16
	NodeTopOffset      = 0x06 // i16
	NodeAdvanceOffset  = 0x08 // u16
	NodeColsOffset     = 0x0A // u16
	NodeRowsOffset     = 0x0C // u16
	NodeFontIDOffset   = 0x0E // u16
	NodeDataOffOffset  = 0x10 // u32
	NodeKernOffOffset  = 0x14 // u32
	NodeKernSizeOffset = 0x18 // u16
	NodeDataFlagOffset = 0x1A // u16

	GlyphNodeSize = 0x1C
)

// ============================================================================
// Limits
// ============================================================================
const (
	// MaxFontID is the largest fontId a bundle may declare.
	MaxFontID = 0xFF
	// MaxFontNum is the largest fontNum a bundle may declare.
	MaxFontNum = MaxFontID + 1
	// MaxGlyphNum is the largest glyph table addressable by a u16 leaf.
	MaxGlyphNum = 1<<16 - 1
	// MaxNameLen is the stored length of a registered bundle name.
	MaxNameLen = 32
)
