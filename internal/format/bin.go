package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/glyphkit/internal/buf"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// ParseBinHeader validates and extracts the bundle header. It checks the
// magic and the fontNum range; capacity violations are reported with
// ErrFontCount so callers can classify them separately from bad magic.
func ParseBinHeader(b []byte) (types.BinHeader, error) {
	if len(b) < BinHeaderSize {
		return types.BinHeader{}, fmt.Errorf("bin header: %w", ErrTruncated)
	}
	if !bytes.Equal(b[BinMagicOffset:BinMagicOffset+BinMagicSize], Magic) {
		return types.BinHeader{}, fmt.Errorf("bin header: %w", ErrSignatureMismatch)
	}
	h := types.BinHeader{
		Version: DecodeName(b[BinVersionOffset : BinVersionOffset+BinVersionSize]),
		FontNum: buf.U16LE(b[BinFontNumOffset:]),
	}
	if h.FontNum == 0 || int(h.FontNum) > MaxFontNum {
		return h, fmt.Errorf("bin header: fontNum=%d: %w", h.FontNum, ErrFontCount)
	}
	return h, nil
}

// PutBinHeader encodes h into b[0:BinHeaderSize].
func PutBinHeader(b []byte, h types.BinHeader) error {
	if len(b) < BinHeaderSize {
		return fmt.Errorf("bin header: %w", ErrTruncated)
	}
	copy(b[BinMagicOffset:], Magic)
	if err := EncodeName(b[BinVersionOffset:BinVersionOffset+BinVersionSize], h.Version); err != nil {
		return fmt.Errorf("bin header version: %w", err)
	}
	buf.PutU16LE(b[BinFontNumOffset:], h.FontNum)
	buf.PutU16LE(b[BinReservedOffset:], 0)
	return nil
}
