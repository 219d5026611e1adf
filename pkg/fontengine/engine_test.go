package fontengine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/glyphkit/internal/testutil"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// newEngine registers the primary and fallback fixtures, in that order,
// with fallback fonts [mono, cjk].
func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(Options{
		RegionSize: 256 << 10,
		Bundles: []BundleConfig{
			{Path: testutil.WriteFile(t, "primary.bin", testutil.PrimaryBundle(t), 0)},
			{Path: testutil.WriteFile(t, "fallback.bin", testutil.FallbackBundle(t), 64), Offset: 64},
		},
		Fallback: []types.FontID{testutil.FontMono, testutil.FontCJK},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestNew_RegistersInOrder(t *testing.T) {
	e := newEngine(t)

	infos := e.Bundles()
	require.Len(t, infos, 2)
	assert.Equal(t, "1.0.0", infos[0].Version)
	assert.Equal(t, "2.1.0", infos[1].Version)

	st := e.Stats()
	assert.Equal(t, 256<<10, st.RegionTotal)
	assert.Positive(t, st.RegionUsed)

	v, err := e.GetFontVersion(infos[1].Path, 64)
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", v)
}

// Test that caller-supplied memory backs the arena.
func TestNew_CallerRegion(t *testing.T) {
	mem := make([]byte, 128<<10)
	e, err := New(Options{Region: mem})
	require.NoError(t, err)
	defer e.Close()

	assert.Equal(t, len(mem), e.Stats().RegionTotal)
	require.NoError(t, e.RegisterSource("p", testutil.NewCountingSource(testutil.PrimaryBundle(t)), 0))

	bm, err := e.GetBitmap(testutil.GlyphA, testutil.FontUI)
	require.NoError(t, err)
	assert.Equal(t, testutil.BitmapA, bm)
}

func TestNew_Failures(t *testing.T) {
	_, err := New(Options{Bundles: []BundleConfig{{Path: "/nonexistent/fonts.bin"}}})
	require.ErrorIs(t, err, types.ErrIO)

	// the cache alone needs more than 64 bytes
	_, err = New(Options{Region: make([]byte, 64)})
	require.ErrorIs(t, err, types.ErrCapacity)

	_, err = New(Options{Region: []byte{}})
	require.ErrorIs(t, err, types.ErrCapacity)
}

func TestResolveFallback(t *testing.T) {
	e := newEngine(t)

	node, err := e.ResolveFallback(testutil.GlyphHan)
	require.NoError(t, err)
	assert.EqualValues(t, testutil.FontCJK, node.FontID)
	assert.EqualValues(t, 20, node.Advance)

	node, err = e.ResolveFallback(testutil.GlyphHan, testutil.FontUI, testutil.FontCJK)
	require.NoError(t, err)
	assert.EqualValues(t, testutil.FontUI, node.FontID)
	assert.EqualValues(t, 16, node.Advance)

	_, err = e.ResolveFallback('Z')
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestMeasure(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name    string
		text    string
		width   int
		lines   int
		glyphs  int
		missing []rune
	}{
		{"plain", "AB", 9, 1, 2, nil},
		{"space", "A B", 13, 1, 3, nil},
		{"fallback font", "Aé", 12, 1, 2, nil},
		{"missing", "AZ", 5, 1, 1, []rune{'Z'}},
		{"lines", "AB\nA", 9, 2, 3, nil},
		{"invalid utf8", "A\xff", 5, 1, 1, []rune{'\uFFFD'}},
		{"empty", "", 0, 1, 0, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := e.Measure(tt.text, testutil.FontUI)
			require.NoError(t, err)
			assert.Equal(t, tt.width, m.Width)
			assert.Equal(t, tt.lines, m.Lines)
			assert.Equal(t, tt.lines*16, m.Height)
			assert.Equal(t, tt.glyphs, m.Glyphs)
			assert.Equal(t, tt.missing, m.Missing)
		})
	}

	_, err := e.Measure("A", 99)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestRender(t *testing.T) {
	e := newEngine(t)

	img, m, err := e.Render("AB", testutil.FontUI)
	require.NoError(t, err)
	assert.Equal(t, 9, m.Width)
	assert.Equal(t, 9, img.Rect.Dx())
	assert.Equal(t, 16, img.Rect.Dy())

	// 'A' at pen 0, left 1, top 10 under ascender 12: rows 2 and 3
	assert.EqualValues(t, 0xFF, img.AlphaAt(2, 2).A)
	assert.EqualValues(t, 0xFF, img.AlphaAt(1, 3).A)
	assert.EqualValues(t, 0xFF, img.AlphaAt(3, 3).A)
	assert.EqualValues(t, 0, img.AlphaAt(2, 3).A)
	// 'B' at pen 5
	assert.EqualValues(t, 1, img.AlphaAt(5, 2).A)
	assert.EqualValues(t, 4, img.AlphaAt(6, 3).A)
}

func TestBitDepth(t *testing.T) {
	assert.Equal(t, 8, bitDepth(3, 2, 6))
	assert.Equal(t, 4, bitDepth(3, 2, 4))
	assert.Equal(t, 1, bitDepth(3, 2, 2))
	assert.Equal(t, 0, bitDepth(3, 2, 5))

	assert.EqualValues(t, 0xAA, sample([]byte{0xA5}, 0, 4))
	assert.EqualValues(t, 0x55, sample([]byte{0xA5}, 1, 4))
	assert.EqualValues(t, 0xFF, sample([]byte{0x40}, 1, 1))
	assert.EqualValues(t, 0, sample([]byte{0x40}, 0, 1))
}

func TestClose_Once(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	_, err := e.ResolveGlyph(testutil.GlyphA, testutil.FontUI)
	require.ErrorIs(t, err, types.ErrClosed)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	img := testutil.PrimaryBundle(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "fonts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fonts", "ui.bin"), img, 0o644))

	cfgPath := filepath.Join(dir, "fonts.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
region_size = 262144
fallback = [9]

[[bundle]]
path = "fonts/ui.bin"
`), 0o644))

	cfg, err := LoadConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 262144, cfg.RegionSize)
	require.Len(t, cfg.Bundles, 1)
	assert.Equal(t, filepath.Join(dir, "fonts", "ui.bin"), cfg.Bundles[0].Path)

	e, err := New(cfg.Options())
	require.NoError(t, err)
	defer e.Close()
	assert.Equal(t, []types.FontID{9}, e.Fallback())

	h, err := e.GetFontHeight(testutil.FontMono)
	require.NoError(t, err)
	assert.EqualValues(t, 14, h)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "regoin_size = 5\n",
		"negative size":  "region_size = -1\n",
		"empty path":     "[[bundle]]\noffset = 4\n",
		"negative off":   "[[bundle]]\npath = \"a\"\noffset = -4\n",
		"fallback range": "fallback = [300]\n",
		"bad toml":       "region_size = \n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(doc))
			require.Error(t, err)
		})
	}
}

// Test that Marshal output parses back to the same config.
func TestConfig_Marshal(t *testing.T) {
	cfg := &Config{
		RegionSize: 4096,
		Mapped:     true,
		Fallback:   []uint16{7, 3},
		Bundles:    []BundleConfig{{Path: "a.bin"}, {Path: "b.bin", Offset: 32}},
	}
	data, err := cfg.Marshal()
	require.NoError(t, err)
	back, err := ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}

func TestGlyphImage(t *testing.T) {
	img := GlyphImage(types.GlyphNode{Cols: 3, Rows: 2}, testutil.BitmapA)
	require.NotNil(t, img)
	assert.Equal(t, 3, img.Rect.Dx())
	assert.EqualValues(t, 0xFF, img.AlphaAt(1, 0).A)
	assert.EqualValues(t, 0, img.AlphaAt(0, 0).A)

	assert.Nil(t, GlyphImage(types.GlyphNode{Cols: 3, Rows: 2}, []byte{1, 2, 3, 4, 5}))
	assert.Nil(t, GlyphImage(types.GlyphNode{}, nil))
}
