package format

import (
	"fmt"

	"github.com/joshuapare/glyphkit/internal/buf"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// ParseGlyphNode decodes a GlyphNode record.
//
//	Offset  Size  Description
//	------  ----  ---------------------------------------------
//	 0x00    4    unicode
//	 0x04    2    left (signed)
//	 0x06    2    top (signed)
//	 0x08    2    advance
//	 0x0A    2    cols
//	 0x0C    2    rows
//	 0x0E    2    fontId
//	 0x10    4    dataOff
//	 0x14    4    kernOff
//	 0x18    2    kernSize
//	 0x1A    2    dataFlag
func ParseGlyphNode(b []byte) (types.GlyphNode, error) {
	if !buf.Has(b, 0, GlyphNodeSize) {
		return types.GlyphNode{}, fmt.Errorf("glyph node: %w", ErrTruncated)
	}
	return types.GlyphNode{
		Unicode:  buf.U32LE(b[NodeUnicodeOffset:]),
		Left:     buf.I16LE(b[NodeLeftOffset:]),
		Top:      buf.I16LE(b[NodeTopOffset:]),
		Advance:  buf.U16LE(b[NodeAdvanceOffset:]),
		Cols:     buf.U16LE(b[NodeColsOffset:]),
		Rows:     buf.U16LE(b[NodeRowsOffset:]),
		FontID:   types.FontID(buf.U16LE(b[NodeFontIDOffset:])),
		DataOff:  buf.U32LE(b[NodeDataOffOffset:]),
		KernOff:  buf.U32LE(b[NodeKernOffOffset:]),
		KernSize: buf.U16LE(b[NodeKernSizeOffset:]),
		DataFlag: buf.U16LE(b[NodeDataFlagOffset:]),
	}, nil
}

// PutGlyphNode encodes n into b[0:GlyphNodeSize].
func PutGlyphNode(b []byte, n types.GlyphNode) error {
	if len(b) < GlyphNodeSize {
		return fmt.Errorf("glyph node: %w", ErrTruncated)
	}
	buf.PutU32LE(b[NodeUnicodeOffset:], n.Unicode)
	buf.PutI16LE(b[NodeLeftOffset:], n.Left)
	buf.PutI16LE(b[NodeTopOffset:], n.Top)
	buf.PutU16LE(b[NodeAdvanceOffset:], n.Advance)
	buf.PutU16LE(b[NodeColsOffset:], n.Cols)
	buf.PutU16LE(b[NodeRowsOffset:], n.Rows)
	buf.PutU16LE(b[NodeFontIDOffset:], uint16(n.FontID))
	buf.PutU32LE(b[NodeDataOffOffset:], n.DataOff)
	buf.PutU32LE(b[NodeKernOffOffset:], n.KernOff)
	buf.PutU16LE(b[NodeKernSizeOffset:], n.KernSize)
	buf.PutU16LE(b[NodeDataFlagOffset:], n.DataFlag)
	return nil
}
