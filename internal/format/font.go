package format

import (
	"fmt"

	"github.com/joshuapare/glyphkit/internal/buf"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// ParseFontHeader decodes one FontHeader record.
//
//	Offset  Size  Description
//	------  ----  ---------------------------------------------
//	 0x00    2    fontId
//	 0x02    2    fontHeight
//	 0x04    2    ascender (signed)
//	 0x06    2    descender (signed)
//	 0x08    4    indexOffset, relative to the index section
//	 0x0C    4    indexLen in bytes
//	 0x10    4    glyphNum
//	 0x14    4    glyphOffset, relative to the bitmap blob
//	 0x18   32    name, ISO-8859-1, NUL padded
func ParseFontHeader(b []byte) (types.FontHeader, error) {
	if len(b) < FontHeaderSize {
		return types.FontHeader{}, fmt.Errorf("font header: %w", ErrTruncated)
	}
	return types.FontHeader{
		FontID:      types.FontID(buf.U16LE(b[FontIDOffset:])),
		FontHeight:  buf.U16LE(b[FontHeightOffset:]),
		Ascender:    buf.I16LE(b[FontAscenderOffset:]),
		Descender:   buf.I16LE(b[FontDescenderOffset:]),
		IndexOffset: buf.U32LE(b[FontIndexOffsetOffset:]),
		IndexLen:    buf.U32LE(b[FontIndexLenOffset:]),
		GlyphNum:    buf.U32LE(b[FontGlyphNumOffset:]),
		GlyphOffset: buf.U32LE(b[FontGlyphOffsetOffset:]),
		Name:        DecodeName(b[FontNameOffset : FontNameOffset+FontNameSize]),
	}, nil
}

// PutFontHeader encodes h into b[0:FontHeaderSize].
func PutFontHeader(b []byte, h types.FontHeader) error {
	if len(b) < FontHeaderSize {
		return fmt.Errorf("font header: %w", ErrTruncated)
	}
	buf.PutU16LE(b[FontIDOffset:], uint16(h.FontID))
	buf.PutU16LE(b[FontHeightOffset:], h.FontHeight)
	buf.PutI16LE(b[FontAscenderOffset:], h.Ascender)
	buf.PutI16LE(b[FontDescenderOffset:], h.Descender)
	buf.PutU32LE(b[FontIndexOffsetOffset:], h.IndexOffset)
	buf.PutU32LE(b[FontIndexLenOffset:], h.IndexLen)
	buf.PutU32LE(b[FontGlyphNumOffset:], h.GlyphNum)
	buf.PutU32LE(b[FontGlyphOffsetOffset:], h.GlyphOffset)
	if err := EncodeName(b[FontNameOffset:FontNameOffset+FontNameSize], h.Name); err != nil {
		return fmt.Errorf("font %d name: %w", h.FontID, err)
	}
	return nil
}

// ParseFontHeaders decodes n consecutive headers and enforces the array
// invariants: every fontId is within MaxFontID, ids are strictly ascending
// (binary search depends on it), and each radix table is a positive multiple
// of RadixNodeSize.
func ParseFontHeaders(b []byte, n int) ([]types.FontHeader, error) {
	if _, ok := buf.Table(b, 0, n, FontHeaderSize); !ok {
		return nil, fmt.Errorf("font headers: %d records in %d bytes: %w", n, len(b), ErrTruncated)
	}
	out := make([]types.FontHeader, n)
	for i := range n {
		h, err := ParseFontHeader(b[i*FontHeaderSize:])
		if err != nil {
			return nil, err
		}
		if int(h.FontID) > MaxFontID {
			return nil, fmt.Errorf("font header %d: id %d: %w", i, h.FontID, ErrFontID)
		}
		if i > 0 && h.FontID <= out[i-1].FontID {
			return nil, fmt.Errorf("font header %d: id %d after %d: %w", i, h.FontID, out[i-1].FontID, ErrUnsorted)
		}
		if h.IndexLen == 0 || h.IndexLen%RadixNodeSize != 0 || h.IndexLen/RadixNodeSize > RadixMaxNodes {
			return nil, fmt.Errorf("font %d: indexLen=%d: %w", h.FontID, h.IndexLen, ErrIndexLayout)
		}
		if h.GlyphNum > MaxGlyphNum {
			return nil, fmt.Errorf("font %d: glyphNum=%d: %w", h.FontID, h.GlyphNum, ErrIndexLayout)
		}
		out[i] = h
	}
	return out, nil
}
