package format

import (
	"bytes"
	"fmt"

	"golang.org/x/text/encoding/charmap"
)

// DecodeName converts a NUL-padded ISO-8859-1 field to UTF-8.
// Bytes after the first NUL are ignored.
func DecodeName(field []byte) string {
	if i := bytes.IndexByte(field, 0); i >= 0 {
		field = field[:i]
	}
	if len(field) == 0 {
		return ""
	}
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(field)
	if err != nil {
		// every byte is valid ISO-8859-1; keep the raw bytes if the decoder disagrees
		return string(field)
	}
	return string(out)
}

// EncodeName writes s as ISO-8859-1 into field and NUL-pads the rest.
// Names that do not fit or contain runes outside Latin-1 are rejected rather
// than truncated.
func EncodeName(field []byte, s string) error {
	enc, err := charmap.ISO8859_1.NewEncoder().String(s)
	if err != nil {
		return fmt.Errorf("%q: %w", s, ErrNameEncoding)
	}
	if len(enc) > len(field) {
		return fmt.Errorf("%q is %d bytes, field holds %d: %w", s, len(enc), len(field), ErrNameEncoding)
	}
	n := copy(field, enc)
	clear(field[n:])
	return nil
}

// TruncateName keeps the trailing MaxNameLen bytes of name. Registered bundle
// names are stored this way so the distinguishing file name at the end of a
// long path survives.
func TruncateName(name string) string {
	if len(name) <= MaxNameLen {
		return name
	}
	return name[len(name)-MaxNameLen:]
}
