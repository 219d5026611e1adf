// Package pack turns glyph sources into bundle fonts: x/image font faces
// (Go fonts, basicfont, OpenType files) are rasterized at a pixel size, and
// BMFont descriptors are cut out of their page images. Bitmaps are stored
// as 8-bit coverage, cropped to their ink.
package pack

import (
	"fmt"
	"image"
	"image/color"
	"slices"

	"github.com/joshuapare/glyphkit/font/bundle"
	"github.com/joshuapare/glyphkit/internal/format"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// Metrics are the font-wide values written to the FontHeader.
type Metrics struct {
	Height    int
	Ascender  int
	Descender int // negative below the baseline
}

// Source produces glyphs for one font.
type Source interface {
	Name() string
	Metrics() Metrics
	// Has reports whether the source has a real glyph for r (not a
	// replacement or .notdef glyph).
	Has(r rune) bool
	Glyph(r rune) (bundle.GlyphSpec, error)
	// Kern returns the advance adjustment in pixels when b follows a.
	Kern(a, b rune) int
}

// Enumerator is implemented by sources that know their full repertoire.
type Enumerator interface {
	Runes() []rune
}

// Options selects what AddFont packs.
type Options struct {
	ID     types.FontID
	Name   string  // defaults to the source name
	Ranges []Range // defaults to the source repertoire, or DefaultRanges
}

// DefaultRanges is printable ASCII.
var DefaultRanges = []Range{{Lo: 0x20, Hi: 0x7E}}

// Report summarizes one AddFont call.
type Report struct {
	Glyphs  int
	Kerning int    // pairs stored
	Skipped []rune // requested runes the source lacks
}

// AddFont declares opts.ID in b and adds every requested rune src has.
func AddFont(b *bundle.Builder, src Source, opts Options) (Report, error) {
	name := opts.Name
	if name == "" {
		name = src.Name()
	}
	m := src.Metrics()
	if err := b.AddFont(bundle.FontSpec{
		ID:        opts.ID,
		Height:    clampU16(m.Height),
		Ascender:  clampI16(m.Ascender),
		Descender: clampI16(m.Descender),
		Name:      format.TruncateName(name),
	}); err != nil {
		return Report{}, err
	}

	runes := selectRunes(src, opts.Ranges)
	var rep Report
	var have []rune
	for _, r := range runes {
		if r <= 0 || !src.Has(r) {
			rep.Skipped = append(rep.Skipped, r)
			continue
		}
		have = append(have, r)
	}

	for _, r := range have {
		g, err := src.Glyph(r)
		if err != nil {
			return rep, fmt.Errorf("%s U+%04X: %w", src.Name(), r, err)
		}
		var pairs []format.KernPair
		for _, next := range have {
			if k := src.Kern(r, next); k != 0 {
				pairs = append(pairs, format.KernPair{Next: uint32(next), Amount: clampI16(k)})
			}
		}
		if len(pairs) > 0 {
			g.Kern = format.EncodeKernPairs(pairs)
			rep.Kerning += len(pairs)
		}
		if err := b.AddGlyph(opts.ID, g); err != nil {
			return rep, err
		}
		rep.Glyphs++
	}
	return rep, nil
}

func selectRunes(src Source, ranges []Range) []rune {
	if len(ranges) == 0 {
		if e, ok := src.(Enumerator); ok {
			rs := e.Runes()
			slices.Sort(rs)
			return slices.Compact(rs)
		}
		ranges = DefaultRanges
	}
	var out []rune
	for _, rg := range ranges {
		for r := rg.Lo; r <= rg.Hi; r++ {
			out = append(out, r)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// cropGlyph copies the coverage of img inside rect and trims empty rows and
// columns. origin is the pen position in img coordinates; the returned spec
// has Left/Top relative to it. A glyph without ink gets no bitmap.
func cropGlyph(img image.Image, rect image.Rectangle, origin image.Point) bundle.GlyphSpec {
	ink := image.Rectangle{}
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if coverage(img.At(x, y)) != 0 {
				ink = ink.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	if ink.Empty() {
		return bundle.GlyphSpec{}
	}
	bm := make([]byte, 0, ink.Dx()*ink.Dy())
	for y := ink.Min.Y; y < ink.Max.Y; y++ {
		for x := ink.Min.X; x < ink.Max.X; x++ {
			bm = append(bm, coverage(img.At(x, y)))
		}
	}
	return bundle.GlyphSpec{
		Left:   clampI16(ink.Min.X - origin.X),
		Top:    clampI16(origin.Y - ink.Min.Y),
		Cols:   clampU16(ink.Dx()),
		Rows:   clampU16(ink.Dy()),
		Bitmap: bm,
	}
}

// coverage maps a pixel to 0..255 ink. Alpha masks and white-on-transparent
// sheets carry ink in alpha; opaque white-on-black sheets carry it in the
// colour channels.
func coverage(c color.Color) uint8 {
	r, g, b, a := c.RGBA()
	return uint8(min(a, max(r, g, b)) >> 8)
}

func clampU16(v int) uint16 {
	return uint16(min(max(v, 0), 0xFFFF))
}

func clampI16(v int) int16 {
	return int16(min(max(v, -0x8000), 0x7FFF))
}
