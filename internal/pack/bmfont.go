package pack

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/fzipp/bmfont"

	"github.com/joshuapare/glyphkit/font/bundle"
)

// bmSource cuts glyphs out of a loaded BMFont's page sheets.
type bmSource struct {
	name string
	font *bmfont.BitmapFont
}

// LoadBMFont loads a text-format .fnt descriptor and its page images.
func LoadBMFont(path string) (Source, error) {
	f, err := bmfont.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	name := f.Descriptor.Info.Face
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &bmSource{name: name, font: f}, nil
}

func (s *bmSource) Name() string { return s.name }

func (s *bmSource) Metrics() Metrics {
	c := s.font.Descriptor.Common
	return Metrics{
		Height:    c.LineHeight,
		Ascender:  c.Base,
		Descender: c.Base - c.LineHeight,
	}
}

func (s *bmSource) Has(r rune) bool {
	_, ok := s.font.Descriptor.Chars[r]
	return ok
}

// Runes lists every character the descriptor defines.
func (s *bmSource) Runes() []rune {
	out := make([]rune, 0, len(s.font.Descriptor.Chars))
	for _, ch := range s.font.Descriptor.Chars {
		out = append(out, ch.ID)
	}
	return out
}

// Glyph crops the character's cell from its page. BMFont offsets are
// measured from the top of the line, so the baseline sits Common.Base
// pixels below the cell origin.
func (s *bmSource) Glyph(r rune) (bundle.GlyphSpec, error) {
	ch, ok := s.font.Descriptor.Chars[r]
	if !ok {
		return bundle.GlyphSpec{}, fmt.Errorf("no char %q", r)
	}
	if ch.Page < 0 || ch.Page >= len(s.font.PageSheets) {
		return bundle.GlyphSpec{}, fmt.Errorf("char %q: page %d not loaded", r, ch.Page)
	}
	page := s.font.PageSheets[ch.Page]
	if page == nil {
		return bundle.GlyphSpec{}, fmt.Errorf("char %q: page %d not loaded", r, ch.Page)
	}
	cell := image.Rect(ch.X, ch.Y, ch.X+ch.Width, ch.Y+ch.Height)
	if !cell.In(page.Bounds()) {
		return bundle.GlyphSpec{}, fmt.Errorf("char %q: cell %v outside page %v", r, cell, page.Bounds())
	}
	origin := image.Pt(ch.X-ch.XOffset, ch.Y-ch.YOffset+s.font.Descriptor.Common.Base)
	g := cropGlyph(page, cell, origin)
	g.Unicode = uint32(r)
	g.Advance = clampU16(ch.XAdvance)
	return g, nil
}

func (s *bmSource) Kern(a, b rune) int {
	k, ok := s.font.Descriptor.Kerning[bmfont.CharPair{First: a, Second: b}]
	if !ok {
		return 0
	}
	return k.Amount
}
