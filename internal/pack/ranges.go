package pack

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Range is an inclusive code point range.
type Range struct {
	Lo, Hi rune
}

// ParseRanges parses a comma separated list such as
// "0x20-0x7e,U+4E2D,A-Z,233". Bounds are hex (0x or U+ prefix), decimal,
// or a single literal character.
func ParseRanges(s string) ([]Range, error) {
	var out []Range
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi := part, part
		if i := strings.Index(part[1:], "-"); i >= 0 {
			lo, hi = part[:i+1], part[i+2:]
		}
		a, err := ParseRune(lo)
		if err != nil {
			return nil, err
		}
		b, err := ParseRune(hi)
		if err != nil {
			return nil, err
		}
		if b < a {
			return nil, fmt.Errorf("range %q: end before start", part)
		}
		out = append(out, Range{Lo: a, Hi: b})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no ranges in %q", s)
	}
	return out, nil
}

// ParseRune parses one code point: hex with a 0x or U+ prefix, decimal, or
// a single literal non-digit character.
func ParseRune(s string) (rune, error) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		if r < '0' || r > '9' {
			return r, nil
		}
	}
	var v uint64
	var err error
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseUint(s[2:], 16, 32)
	case strings.HasPrefix(s, "U+"), strings.HasPrefix(s, "u+"):
		v, err = strconv.ParseUint(s[2:], 16, 32)
	default:
		v, err = strconv.ParseUint(s, 10, 32)
	}
	if err != nil {
		return 0, fmt.Errorf("code point %q: %w", s, err)
	}
	if v > utf8.MaxRune {
		return 0, fmt.Errorf("code point %q beyond U+10FFFF", s)
	}
	return rune(v), nil
}
