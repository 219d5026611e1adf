package buf

import "math"

// Bundle sections are addressed by (offset, length) pairs and fixed-size
// record counts read from untrusted headers. The helpers below only accept
// non-negative values and report int overflow instead of wrapping.

// End returns off+n, the exclusive end of a byte range. ok is false when
// either value is negative or the sum does not fit in an int.
func End(off, n int) (int, bool) {
	if off < 0 || n < 0 || off > math.MaxInt-n {
		return 0, false
	}
	return off + n, true
}

// Size returns count*recSize, the byte length of a table of fixed-size
// records. ok is false for negative inputs or when the product overflows.
func Size(count, recSize int) (int, bool) {
	if count < 0 || recSize < 0 {
		return 0, false
	}
	if recSize != 0 && count > math.MaxInt/recSize {
		return 0, false
	}
	return count * recSize, true
}

// Table returns the bytes of count records of recSize bytes starting at off,
// or ok = false when the table does not lie entirely within b.
func Table(b []byte, off, count, recSize int) ([]byte, bool) {
	n, ok := Size(count, recSize)
	if !ok {
		return nil, false
	}
	return Slice(b, off, n)
}

// Slice returns b[off:off+n] if the range lies within b.
func Slice(b []byte, off, n int) ([]byte, bool) {
	end, ok := End(off, n)
	if !ok || end > len(b) {
		return nil, false
	}
	return b[off:end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n int) bool {
	_, ok := Slice(b, off, n)
	return ok
}
