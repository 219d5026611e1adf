// Package testutil holds fixtures shared by the glyph engine tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/glyphkit/font/alloc"
	"github.com/joshuapare/glyphkit/font/bundle"
	"github.com/joshuapare/glyphkit/internal/format"
)

// Font ids used by the sample bundles.
const (
	FontUI   = 7
	FontMono = 9
	FontCJK  = 12
)

// Code points present in the sample bundles.
const (
	GlyphA      = 'A'
	GlyphB      = 'B'
	GlyphSpace  = ' '
	GlyphEAcute = 'é'
	GlyphHan    = '中'
)

// BitmapA is the bitmap stored for 'A' in font FontUI of the primary bundle.
var BitmapA = []byte{
	0x00, 0xFF, 0x00,
	0xFF, 0x00, 0xFF,
}

// NewRegion returns a mapped region of size bytes released at test end.
func NewRegion(t *testing.T, size int) *alloc.Region {
	t.Helper()
	r, err := alloc.NewBacked(size)
	if err != nil {
		t.Fatalf("NewBacked(%d): %v", size, err)
	}
	t.Cleanup(func() { _ = r.Release() })
	return r
}

// PrimaryBundle builds a two-font bundle:
//
//	font 7 "ui"   height 16: 'A' (3x2), 'B' (2x2, kerns -1 before 'A'), ' ' (no bitmap)
//	font 9 "mono" height 14: 'A' (1x1), 'é' (2x1)
func PrimaryBundle(t *testing.T) []byte {
	t.Helper()
	b := bundle.NewBuilder("1.0.0")
	must(t, b.AddFont(bundle.FontSpec{ID: FontUI, Height: 16, Ascender: 12, Descender: -4, Name: "ui"}))
	must(t, b.AddFont(bundle.FontSpec{ID: FontMono, Height: 14, Ascender: 11, Descender: -3, Name: "mono"}))

	must(t, b.AddGlyph(FontUI, bundle.GlyphSpec{Unicode: GlyphA, Left: 1, Top: 10, Advance: 5, Cols: 3, Rows: 2, Bitmap: BitmapA}))
	must(t, b.AddGlyph(FontUI, bundle.GlyphSpec{Unicode: GlyphB, Left: 0, Top: 10, Advance: 4, Cols: 2, Rows: 2,
		Bitmap: []byte{1, 2, 3, 4}, Kern: format.EncodeKernPairs([]format.KernPair{{Next: GlyphA, Amount: -1}})}))
	must(t, b.AddGlyph(FontUI, bundle.GlyphSpec{Unicode: GlyphSpace, Advance: 4}))
	must(t, b.AddGlyph(FontMono, bundle.GlyphSpec{Unicode: GlyphA, Advance: 7, Cols: 1, Rows: 1, Bitmap: []byte{0x80}}))
	must(t, b.AddGlyph(FontMono, bundle.GlyphSpec{Unicode: GlyphEAcute, Advance: 7, Cols: 2, Rows: 1, Bitmap: []byte{9, 9}}))

	img, err := b.Bytes()
	must(t, err)
	return img
}

// FallbackBundle builds a one-font bundle that reuses FontUI's id:
//
//	font 7 "ui-ext" height 18: 'A' (1x1), '中' (2x2)
func FallbackBundle(t *testing.T) []byte {
	t.Helper()
	b := bundle.NewBuilder("2.1.0")
	must(t, b.AddFont(bundle.FontSpec{ID: FontUI, Height: 18, Ascender: 14, Descender: -4, Name: "ui-ext"}))
	must(t, b.AddFont(bundle.FontSpec{ID: FontCJK, Height: 20, Ascender: 16, Descender: -4, Name: "cjk"}))
	must(t, b.AddGlyph(FontUI, bundle.GlyphSpec{Unicode: GlyphA, Advance: 9, Cols: 1, Rows: 1, Bitmap: []byte{0x42}}))
	must(t, b.AddGlyph(FontUI, bundle.GlyphSpec{Unicode: GlyphHan, Advance: 16, Cols: 2, Rows: 2, Bitmap: []byte{5, 6, 7, 8}}))
	must(t, b.AddGlyph(FontCJK, bundle.GlyphSpec{Unicode: GlyphHan, Advance: 20, Cols: 1, Rows: 1, Bitmap: []byte{1}}))
	img, err := b.Bytes()
	must(t, err)
	return img
}

// WriteFile writes img into a temp dir (optionally after pad zero bytes)
// and returns its path.
func WriteFile(t *testing.T, name string, img []byte, pad int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	data := append(make([]byte, pad), img...)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}
}
