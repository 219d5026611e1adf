package types

// -----------------------------------------------------------------------------
// Core Records
// -----------------------------------------------------------------------------

// FontID addresses one logical font inside a bundle.
type FontID uint16

// GlyphNode is the fixed-size metadata record for one stored glyph.
//
// Unicode 0 is reserved as the "empty" marker in the glyph cache; a bundle
// never indexes code point 0.
type GlyphNode struct {
	Unicode  uint32 // code point this node represents
	Left     int16  // horizontal bearing in pixels
	Top      int16  // distance from baseline to the first bitmap row
	Advance  uint16 // pen advance in pixels
	Cols     uint16 // bitmap width in pixels
	Rows     uint16 // bitmap height in pixels
	FontID   FontID // logical font that produced the node
	DataOff  uint32 // bitmap start, relative to the font's bitmap base
	KernOff  uint32 // bitmap end (kerning data follows the bitmap)
	KernSize uint16 // bytes of kerning data after KernOff
	DataFlag uint16 // font id that last populated the bitmap slot
}

// BitmapSize returns KernOff-DataOff, or 0 when the range is empty or inverted.
func (n GlyphNode) BitmapSize() int {
	if n.KernOff <= n.DataOff {
		return 0
	}
	return int(n.KernOff - n.DataOff)
}

// BinHeader is the bundle-level header.
type BinHeader struct {
	Version string // format/tool version string
	FontNum uint16 // number of logical fonts in the bundle
}

// FontHeader describes one logical font as stored in the bundle.
type FontHeader struct {
	FontID      FontID
	FontHeight  uint16
	Ascender    int16
	Descender   int16
	IndexOffset uint32 // relative to the index section
	IndexLen    uint32 // bytes of radix nodes
	GlyphNum    uint32 // glyph nodes in this font's table
	GlyphOffset uint32 // font base inside the bitmap blob
	Name        string // ISO-8859-1 decoded, NUL padding removed
}

// FontMeta is a FontHeader plus the absolute offsets derived at open time.
type FontMeta struct {
	FontHeader
	IndexStart  int64 // absolute offset of this font's radix table
	NodeStart   int64 // absolute offset of this font's glyph-node table
	BitmapStart int64 // absolute offset of this font's bitmap base
	Ordinal     int   // position of the font in the bundle header array
}
