package format

import "errors"

var (
	// ErrSignatureMismatch indicates the bundle magic did not match.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrFontCount indicates fontNum is zero or beyond MaxFontNum.
	ErrFontCount = errors.New("format: font count out of range")
	// ErrFontID indicates a fontId beyond MaxFontID.
	ErrFontID = errors.New("format: font id out of range")
	// ErrUnsorted indicates the font header array is not strictly ascending.
	ErrUnsorted = errors.New("format: font headers not sorted by id")
	// ErrIndexLayout indicates a radix table that is misaligned or out of range.
	ErrIndexLayout = errors.New("format: bad radix index layout")
	// ErrNameEncoding indicates a name that cannot be stored as ISO-8859-1.
	ErrNameEncoding = errors.New("format: name not representable")
)
