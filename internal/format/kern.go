package format

import (
	"fmt"

	"github.com/joshuapare/glyphkit/internal/buf"
)

// KernPairSize is the on-disk size of one kerning record.
//
//	Offset  Size  Description
//	------  ----  -----------------------------------
//	 0x00    4    following code point
//	 0x04    2    adjustment in pixels (signed)
const KernPairSize = 6

// KernPair adjusts the advance of a glyph when Next follows it.
type KernPair struct {
	Next   uint32
	Amount int16
}

// EncodeKernPairs returns the kerning block stored after a glyph bitmap.
func EncodeKernPairs(pairs []KernPair) []byte {
	out := make([]byte, len(pairs)*KernPairSize)
	for i, p := range pairs {
		rec := out[i*KernPairSize:]
		buf.PutU32LE(rec, p.Next)
		buf.PutI16LE(rec[4:], p.Amount)
	}
	return out
}

// DecodeKernPairs parses a kerning block. Its length must be a multiple of
// KernPairSize.
func DecodeKernPairs(b []byte) ([]KernPair, error) {
	if len(b)%KernPairSize != 0 {
		return nil, fmt.Errorf("kerning block of %d bytes: %w", len(b), ErrTruncated)
	}
	out := make([]KernPair, len(b)/KernPairSize)
	for i := range out {
		rec, _ := buf.Slice(b, i*KernPairSize, KernPairSize)
		out[i] = KernPair{Next: buf.U32LE(rec), Amount: buf.I16LE(rec[4:])}
	}
	return out, nil
}
