package pack

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/joshuapare/glyphkit/font/bundle"
)

// builtin lists the Go fonts selectable by name.
var builtin = map[string][]byte{
	"goregular":  goregular.TTF,
	"gobold":     gobold.TTF,
	"goitalic":   goitalic.TTF,
	"gomono":     gomono.TTF,
	"gomonobold": gomonobold.TTF,
}

// Builtins returns the names accepted by Open besides file paths.
func Builtins() []string {
	return []string{"basic", "goregular", "gobold", "goitalic", "gomono", "gomonobold"}
}

// Open resolves spec to a source: "basic" (the 7x13 basicfont face), one of
// the Go font names, a .ttf/.otf file rasterized at size pixels, or a .fnt
// BMFont descriptor (size is ignored).
func Open(spec string, size float64) (Source, error) {
	switch {
	case spec == "basic":
		return NewBasicSource(basicfont.Face7x13, "basic7x13"), nil
	case builtin[spec] != nil:
		return NewOpenTypeSource(spec, builtin[spec], size)
	}
	switch strings.ToLower(filepath.Ext(spec)) {
	case ".fnt":
		return LoadBMFont(spec)
	case ".ttf", ".otf":
		data, err := os.ReadFile(spec)
		if err != nil {
			return nil, err
		}
		name := strings.TrimSuffix(filepath.Base(spec), filepath.Ext(spec))
		return NewOpenTypeSource(name, data, size)
	default:
		return nil, fmt.Errorf("unknown glyph source %q (want %s, .ttf, .otf or .fnt)", spec, strings.Join(Builtins(), ", "))
	}
}

// faceSource rasterizes glyphs from an x/image font.Face.
type faceSource struct {
	name string
	face font.Face
	has  func(rune) bool
}

// NewBasicSource wraps a basicfont face. Runes outside its ranges are
// reported missing rather than drawn as the replacement glyph.
func NewBasicSource(f *basicfont.Face, name string) Source {
	return &faceSource{
		name: name,
		face: f,
		has: func(r rune) bool {
			for _, rg := range f.Ranges {
				if rg.Low <= r && r < rg.High {
					return true
				}
			}
			return false
		},
	}
}

// NewOpenTypeSource parses an OpenType/TrueType font and rasterizes it at
// size pixels per em (72 DPI) with full hinting.
func NewOpenTypeSource(name string, data []byte, size float64) (Source, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%s: size %v must be positive", name, size)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	var sb sfnt.Buffer
	return &faceSource{
		name: fmt.Sprintf("%s-%g", name, size),
		face: face,
		has: func(r rune) bool {
			x, err := f.GlyphIndex(&sb, r)
			return err == nil && x != 0
		},
	}, nil
}

func (s *faceSource) Name() string { return s.name }

func (s *faceSource) Metrics() Metrics {
	m := s.face.Metrics()
	return Metrics{
		Height:    m.Height.Ceil(),
		Ascender:  m.Ascent.Ceil(),
		Descender: -m.Descent.Ceil(),
	}
}

func (s *faceSource) Has(r rune) bool { return s.has(r) }

// Glyph draws r with the pen at the origin; the returned rectangle is
// relative to the baseline, so its Min.Y is negative above it.
func (s *faceSource) Glyph(r rune) (bundle.GlyphSpec, error) {
	dr, mask, maskp, adv, ok := s.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return bundle.GlyphSpec{}, fmt.Errorf("face has no glyph for %q", r)
	}
	// shift from destination space into mask space
	off := maskp.Sub(dr.Min)
	g := cropGlyph(mask, dr.Add(off), off)
	g.Unicode = uint32(r)
	g.Advance = clampU16(adv.Round())
	return g, nil
}

func (s *faceSource) Kern(a, b rune) int {
	return s.face.Kern(a, b).Round()
}
