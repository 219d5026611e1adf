package bundle_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/glyphkit/font/alloc"
	"github.com/joshuapare/glyphkit/font/bundle"
	"github.com/joshuapare/glyphkit/internal/format"
	"github.com/joshuapare/glyphkit/internal/testutil"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// Layout of testutil.PrimaryBundle:
//
//	index section  [144, 720)  font 7: 9 nodes, font 9: 9 nodes
//	glyph nodes    [720, 860)  font 7: ' ' 'A' 'B', font 9: 'A' 'é'
//	bitmap blob    [860, 879)  font 7 base 0, font 9 base 16
const (
	primaryIndexStart  = 144
	primaryNodeStart   = 720
	primaryBitmapStart = 860
	primarySize        = 879
)

func openPrimary(t *testing.T) (*bundle.Bundle, *testutil.CountingSource) {
	t.Helper()
	src := testutil.NewCountingSource(testutil.PrimaryBundle(t))
	b, err := bundle.NewReader(src, 0, testutil.NewRegion(t, 64<<10), bundle.Options{Name: "primary"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b, src
}

// Test that open derives every section offset from the headers.
func TestOpen_DerivedOffsets(t *testing.T) {
	img := testutil.PrimaryBundle(t)
	require.Len(t, img, primarySize)

	b, src := openPrimary(t)
	assert.Equal(t, "1.0.0", b.Version())
	assert.Equal(t, []types.FontID{7, 9}, b.FontIDs())
	assert.EqualValues(t, 3, src.Reads(), "bin header, font headers, radix tables")

	ui, ok := b.FindFontByID(testutil.FontUI)
	require.True(t, ok)
	assert.EqualValues(t, primaryIndexStart, ui.IndexStart)
	assert.EqualValues(t, primaryNodeStart, ui.NodeStart)
	assert.EqualValues(t, primaryBitmapStart, ui.BitmapStart)
	assert.EqualValues(t, 3, ui.GlyphNum)
	assert.Equal(t, "ui", ui.Name)
	assert.Equal(t, 0, ui.Ordinal)

	mono, ok := b.FindFontByID(testutil.FontMono)
	require.True(t, ok)
	assert.EqualValues(t, primaryIndexStart+9*format.RadixNodeSize, mono.IndexStart)
	assert.EqualValues(t, primaryNodeStart+3*format.GlyphNodeSize, mono.NodeStart)
	assert.EqualValues(t, primaryBitmapStart+16, mono.BitmapStart)

	_, ok = b.FindFontByID(8)
	assert.False(t, ok)
}

// Test the canonical lookup: 'A' in font 7, then its bitmap.
func TestLookupGlyph_FontSeven(t *testing.T) {
	b, src := openPrimary(t)
	before := src.Reads()

	node, err := b.LookupGlyph(testutil.GlyphA, testutil.FontUI)
	require.NoError(t, err)
	assert.EqualValues(t, 'A', node.Unicode)
	assert.EqualValues(t, testutil.FontUI, node.FontID)
	assert.EqualValues(t, 3, node.Cols)
	assert.EqualValues(t, 2, node.Rows)
	assert.EqualValues(t, 5, node.Advance)
	assert.EqualValues(t, 1, node.Left)
	assert.EqualValues(t, 10, node.Top)
	assert.Equal(t, before+1, src.Reads(), "lookup reads exactly one node")

	dst := make([]byte, 64)
	n, err := b.ReadBitmap(node, dst)
	require.NoError(t, err)
	assert.Equal(t, testutil.BitmapA, dst[:n])
	assert.Equal(t, before+2, src.Reads())
}

// Test that the same font id resolves independently per font.
func TestLookupGlyph_PerFont(t *testing.T) {
	b, _ := openPrimary(t)

	node, err := b.LookupGlyph(testutil.GlyphA, testutil.FontMono)
	require.NoError(t, err)
	assert.EqualValues(t, 7, node.Advance)

	dst := make([]byte, 4)
	n, err := b.ReadBitmap(node, dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, dst[:n])

	node, err = b.LookupGlyph(testutil.GlyphEAcute, testutil.FontMono)
	require.NoError(t, err)
	n, err = b.ReadBitmap(node, dst)
	require.NoError(t, err)
	assert.Equal(t, []byte{9, 9}, dst[:n])
}

func TestLookupGlyph_NotFound(t *testing.T) {
	b, _ := openPrimary(t)

	tests := []struct {
		name    string
		unicode uint32
		font    types.FontID
	}{
		{"unknown font", 'A', 8},
		{"missing code point", 'Z', testutil.FontUI},
		{"present in other font", testutil.GlyphEAcute, testutil.FontUI},
		{"shares radix prefix", 'C', testutil.FontUI},
		{"high plane", 0x1F600, testutil.FontUI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.LookupGlyph(tt.unicode, tt.font)
			require.ErrorIs(t, err, types.ErrNotFound)
		})
	}
}

// Test that a node with an empty or inverted bitmap range is rejected
// before any read.
func TestReadBitmap_CorruptNode(t *testing.T) {
	b, src := openPrimary(t)
	before := src.Reads()

	for _, node := range []types.GlyphNode{
		{Unicode: 'A', FontID: testutil.FontUI, DataOff: 4, KernOff: 4},
		{Unicode: 'A', FontID: testutil.FontUI, DataOff: 8, KernOff: 2},
	} {
		_, err := b.ReadBitmap(node, make([]byte, 16))
		require.ErrorIs(t, err, types.ErrCorruptNode)
		require.ErrorIs(t, err, types.ErrFormat)
	}
	assert.Equal(t, before, src.Reads())
}

func TestReadBitmap_SmallBuffer(t *testing.T) {
	b, _ := openPrimary(t)
	node, err := b.LookupGlyph(testutil.GlyphA, testutil.FontUI)
	require.NoError(t, err)

	_, err = b.ReadBitmap(node, make([]byte, 5))
	require.ErrorIs(t, err, types.ErrCapacity)
}

// Test that a bundle placed at a non-zero offset in a file resolves
// identically, through both the file and the mapped source.
func TestOpen_NonZeroStart(t *testing.T) {
	path := testutil.WriteFile(t, "fonts.bin", testutil.PrimaryBundle(t), 4096)

	open := map[string]func(string, int64, *alloc.Region, bundle.Options) (*bundle.Bundle, error){
		"file":   bundle.Open,
		"mapped": bundle.OpenMapped,
	}
	for name, fn := range open {
		t.Run(name, func(t *testing.T) {
			b, err := fn(path, 4096, testutil.NewRegion(t, 64<<10), bundle.Options{})
			require.NoError(t, err)
			defer b.Close()

			assert.Equal(t, path, b.Path())
			node, err := b.LookupGlyph(testutil.GlyphB, testutil.FontUI)
			require.NoError(t, err)
			dst := make([]byte, 8)
			n, err := b.ReadBitmap(node, dst)
			require.NoError(t, err)
			assert.Equal(t, []byte{1, 2, 3, 4}, dst[:n])
			assert.EqualValues(t, format.KernPairSize, node.KernSize)

			pairs, err := b.ReadKern(node)
			require.NoError(t, err)
			assert.Equal(t, []format.KernPair{{Next: 'A', Amount: -1}}, pairs)

			v, err := bundle.ReadVersion(path, 4096)
			require.NoError(t, err)
			assert.Equal(t, "1.0.0", v)
		})
	}
}

func TestOpen_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]byte) []byte
		region int
		want   error
	}{
		{
			name:   "bad magic",
			mutate: func(b []byte) []byte { b[0] = 'X'; return b },
			want:   types.ErrFormat,
		},
		{
			name: "zero fonts",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint16(b[format.BinFontNumOffset:], 0)
				return b
			},
			want: types.ErrCapacity,
		},
		{
			name: "too many fonts",
			mutate: func(b []byte) []byte {
				binary.LittleEndian.PutUint16(b[format.BinFontNumOffset:], 300)
				return b
			},
			want: types.ErrCapacity,
		},
		{
			name: "unsorted font ids",
			mutate: func(b []byte) []byte {
				off := format.BinHeaderSize + format.FontHeaderSize + format.FontIDOffset
				binary.LittleEndian.PutUint16(b[off:], 3)
				return b
			},
			want: types.ErrFormat,
		},
		{
			name: "index outside section",
			mutate: func(b []byte) []byte {
				off := format.BinHeaderSize + format.FontIndexOffsetOffset
				binary.LittleEndian.PutUint32(b[off:], 10*format.RadixNodeSize)
				return b
			},
			want: types.ErrFormat,
		},
		{
			name:   "truncated index",
			mutate: func(b []byte) []byte { return b[:500] },
			want:   types.ErrIO,
		},
		{
			name:   "truncated header",
			mutate: func(b []byte) []byte { return b[:20] },
			want:   types.ErrIO,
		},
		{
			name:   "region too small",
			region: 256,
			want:   types.ErrCapacity,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := testutil.PrimaryBundle(t)
			if tt.mutate != nil {
				img = tt.mutate(img)
			}
			size := tt.region
			if size == 0 {
				size = 64 << 10
			}
			src := testutil.NewCountingSource(img)
			_, err := bundle.NewReader(src, 0, testutil.NewRegion(t, size), bundle.Options{})
			require.ErrorIs(t, err, tt.want)
			assert.EqualValues(t, 1, src.Closes(), "source closed on failure")
		})
	}
}

func TestOpen_MissingFile(t *testing.T) {
	_, err := bundle.Open("/nonexistent/fonts.bin", 0, testutil.NewRegion(t, 4096), bundle.Options{})
	require.ErrorIs(t, err, types.ErrIO)
}

// Test that every radix table of the bundle shares one arena block.
func TestOpen_IndexInRegion(t *testing.T) {
	region := testutil.NewRegion(t, 64<<10)
	b, err := bundle.NewReader(bundle.BytesSource(testutil.PrimaryBundle(t)), 0, region, bundle.Options{})
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, 18*format.RadixNodeSize, region.UsedBytes())
}

func TestWalk_AscendingOrder(t *testing.T) {
	b, _ := openPrimary(t)

	var got []uint32
	require.NoError(t, b.Walk(testutil.FontUI, func(n types.GlyphNode) error {
		assert.EqualValues(t, testutil.FontUI, n.FontID)
		got = append(got, n.Unicode)
		return nil
	}))
	assert.Equal(t, []uint32{' ', 'A', 'B'}, got)

	require.ErrorIs(t, b.Walk(99, func(types.GlyphNode) error { return nil }), types.ErrNotFound)
}

func TestMatchesName(t *testing.T) {
	long := "/very/long/path/to/some/vendor/fonts/ui-regular.bin"
	src := bundle.BytesSource(testutil.PrimaryBundle(t))
	b, err := bundle.NewReader(src, 0, testutil.NewRegion(t, 64<<10), bundle.Options{Name: long})
	require.NoError(t, err)
	defer b.Close()

	assert.Len(t, b.Name(), format.MaxNameLen)
	assert.True(t, b.MatchesName(long))
	assert.True(t, b.MatchesName("/other/prefix"+long[len(long)-format.MaxNameLen:]))
	assert.False(t, b.MatchesName("ui-regular.bin"))
}

func TestClose_Idempotent(t *testing.T) {
	src := testutil.NewCountingSource(testutil.PrimaryBundle(t))
	b, err := bundle.NewReader(src, 0, testutil.NewRegion(t, 64<<10), bundle.Options{})
	require.NoError(t, err)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())
	assert.EqualValues(t, 1, src.Closes())

	_, err = b.LookupGlyph('A', testutil.FontUI)
	require.ErrorIs(t, err, types.ErrClosed)
}
