package fontengine

import (
	"errors"
	"image"

	"github.com/joshuapare/glyphkit/pkg/types"
)

// Render lays out text in fontID and draws it into an 8-bit alpha image.
// The baseline of each line sits Ascender pixels below the line top (the
// font height when the header has no ascender). Glyph bitmaps may be 8, 4
// or 1 bit per pixel; the depth is inferred from the bitmap size.
// Glyphs without a bitmap, such as space, only advance the pen.
func (e *Engine) Render(text string, fontID types.FontID) (*image.Alpha, Metrics, error) {
	m, glyphs, err := e.layout(text, fontID)
	if err != nil {
		return nil, Metrics{}, err
	}
	baseline := m.Ascender
	if baseline <= 0 {
		baseline = m.LineHeight
	}

	// bitmaps may overhang their advance, so size the canvas to the ink too
	width := m.Width
	for _, g := range glyphs {
		width = max(width, g.x+int(g.node.Left)+int(g.node.Cols))
	}
	img := image.NewAlpha(image.Rect(0, 0, max(width, 1), max(m.Height, 1)))

	var buf []byte
	for _, g := range glyphs {
		size := g.node.BitmapSize()
		if size == 0 || g.node.Cols == 0 || g.node.Rows == 0 {
			continue
		}
		if cap(buf) < size {
			buf = make([]byte, size)
		}
		n, err := e.set.ReadBitmap(g.node.Unicode, g.node.FontID, buf[:size])
		if err != nil {
			if errors.Is(err, types.ErrFormat) {
				e.log.Warn("glyph skipped", "unicode", g.node.Unicode, "font", g.node.FontID, "err", err)
				continue
			}
			return nil, Metrics{}, err
		}
		ox := g.x + int(g.node.Left)
		oy := g.line*m.LineHeight + baseline - int(g.node.Top)
		blit(img, ox, oy, g.node, buf[:n])
	}
	return img, m, nil
}

// GlyphImage decodes one glyph bitmap into an image of Cols x Rows pixels.
// It returns nil when the bitmap size matches no supported depth.
func GlyphImage(node types.GlyphNode, bm []byte) *image.Alpha {
	cols, rows := int(node.Cols), int(node.Rows)
	if cols == 0 || rows == 0 || bitDepth(cols, rows, len(bm)) == 0 {
		return nil
	}
	img := image.NewAlpha(image.Rect(0, 0, cols, rows))
	blit(img, 0, 0, node, bm)
	return img
}

// blit draws one glyph bitmap with its top-left corner at (ox, oy).
func blit(img *image.Alpha, ox, oy int, node types.GlyphNode, bm []byte) {
	cols, rows := int(node.Cols), int(node.Rows)
	depth := bitDepth(cols, rows, len(bm))
	if depth == 0 {
		return
	}
	stride := (cols*depth + 7) / 8
	for y := range rows {
		row := bm[y*stride : (y+1)*stride]
		for x := range cols {
			a := sample(row, x, depth)
			if a == 0 {
				continue
			}
			px, py := ox+x, oy+y
			if !(image.Point{X: px, Y: py}).In(img.Rect) {
				continue
			}
			i := img.PixOffset(px, py)
			img.Pix[i] = max(img.Pix[i], a)
		}
	}
}

// bitDepth infers bits per pixel from the bitmap length, preferring the
// deepest format that fits exactly. It returns 0 when none fits.
func bitDepth(cols, rows, n int) int {
	for _, d := range []int{8, 4, 1} {
		if ((cols*d+7)/8)*rows == n {
			return d
		}
	}
	return 0
}

// sample returns pixel x of row scaled to 0..255. Sub-byte pixels are
// packed most significant bits first.
func sample(row []byte, x, depth int) uint8 {
	switch depth {
	case 8:
		return row[x]
	case 4:
		v := row[x/2]
		if x%2 == 0 {
			v >>= 4
		}
		return (v & 0x0F) * 0x11
	default:
		if row[x/8]&(0x80>>(x%8)) != 0 {
			return 0xFF
		}
		return 0
	}
}
