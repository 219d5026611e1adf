package fontengine

import (
	"errors"
	"unicode/utf8"

	"github.com/joshuapare/glyphkit/pkg/types"
)

// Metrics is the result of Measure.
type Metrics struct {
	Width      int    // widest line, sum of advances in pixels
	Height     int    // lines x font height
	Lines      int    // number of lines ('\n' separated)
	Glyphs     int    // runes that resolved to a glyph
	LineHeight int    // font height of the requested font
	Ascender   int    // from the requested font header
	Missing    []rune // runes no font in the search list has, in order
}

// placed is one resolved glyph with its pen position.
type placed struct {
	node types.GlyphNode
	x    int
	line int
}

// Measure lays out text in fontID. Runes the font lacks are looked up in
// the fallback list; runes nobody has are reported in Missing and take no
// space. Invalid UTF-8 is measured as U+FFFD.
func (e *Engine) Measure(text string, fontID types.FontID) (Metrics, error) {
	m, _, err := e.layout(text, fontID)
	return m, err
}

func (e *Engine) layout(text string, fontID types.FontID) (Metrics, []placed, error) {
	hdr, err := e.set.GetFontHeader(fontID)
	if err != nil {
		return Metrics{}, nil, err
	}
	m := Metrics{
		Lines:      1,
		LineHeight: int(hdr.FontHeight),
		Ascender:   int(hdr.Ascender),
	}
	ids := e.searchList(fontID)
	var out []placed
	x, line := 0, 0

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r == '\n' {
			m.Width = max(m.Width, x)
			x = 0
			line++
			m.Lines++
			continue
		}
		node, err := e.ResolveFallback(uint32(r), ids...)
		if errors.Is(err, types.ErrNotFound) {
			m.Missing = append(m.Missing, r)
			continue
		}
		if err != nil {
			return Metrics{}, nil, err
		}
		out = append(out, placed{node: node, x: x, line: line})
		x += int(node.Advance)
		m.Glyphs++
	}
	m.Width = max(m.Width, x)
	m.Height = m.Lines * m.LineHeight
	return m, out, nil
}
