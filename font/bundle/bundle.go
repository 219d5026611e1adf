package bundle

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/joshuapare/glyphkit/font/alloc"
	"github.com/joshuapare/glyphkit/internal/buf"
	"github.com/joshuapare/glyphkit/internal/format"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// Bundle is one opened glyph bundle. Its radix tables live in the region
// the bundle was opened with and stay valid until the region is released.
type Bundle struct {
	name  string
	path  string
	src   Source
	start int64

	header types.BinHeader
	fonts  []types.FontMeta    // ascending FontID
	tables []format.RadixTable  // parallel to fonts, views into one arena block

	indexStart  int64
	nodeStart   int64
	bitmapStart int64

	log    *slog.Logger
	closed bool
}

func newBundle(src Source, path string, start int64, region *alloc.Region, opts Options) (*Bundle, error) {
	if start < 0 {
		return nil, wrapFormatErr("bundle start", fmt.Errorf("negative start %d: %w", start, format.ErrTruncated))
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	b := &Bundle{
		name:  format.TruncateName(opts.Name),
		path:  path,
		src:   src,
		start: start,
		log:   log,
	}
	if err := b.load(region); err != nil {
		return nil, err
	}
	b.log.Debug("bundle opened",
		"name", b.name,
		"version", b.header.Version,
		"fonts", len(b.fonts),
		"indexBytes", b.nodeStart-b.indexStart)
	return b, nil
}

func (b *Bundle) load(region *alloc.Region) error {
	var hdr [format.BinHeaderSize]byte
	if err := readFull(b.src, hdr[:], b.start); err != nil {
		return wrapIOErr("read bundle header", err)
	}
	h, err := format.ParseBinHeader(hdr[:])
	if err != nil {
		return wrapFormatErr("bundle header", err)
	}
	b.header = h

	n := int(h.FontNum)
	raw := make([]byte, n*format.FontHeaderSize)
	if err := readFull(b.src, raw, b.start+format.BinHeaderSize); err != nil {
		return wrapIOErr("read font headers", err)
	}
	headers, err := format.ParseFontHeaders(raw, n)
	if err != nil {
		return wrapFormatErr("font headers", err)
	}
	if err := b.layout(headers); err != nil {
		return wrapFormatErr("bundle layout", err)
	}
	return b.loadIndex(region)
}

// layout derives the absolute section offsets. All header offsets are
// relative to b.start; sums are computed in int64 with explicit range checks
// so a hostile header cannot wrap an offset.
func (b *Bundle) layout(headers []types.FontHeader) error {
	var indexTotal, glyphTotal int64
	for _, h := range headers {
		indexTotal += int64(h.IndexLen)
		glyphTotal += int64(h.GlyphNum)
	}
	b.indexStart = b.start + format.BinHeaderSize + int64(len(headers))*format.FontHeaderSize
	b.nodeStart = b.indexStart + indexTotal
	b.bitmapStart = b.nodeStart + glyphTotal*format.GlyphNodeSize

	b.fonts = make([]types.FontMeta, len(headers))
	var glyphsBefore int64
	for i, h := range headers {
		if h.IndexOffset%format.RadixNodeSize != 0 {
			return fmt.Errorf("font %d: indexOffset %d not node aligned: %w", h.FontID, h.IndexOffset, format.ErrIndexLayout)
		}
		end, ok := buf.End(int(h.IndexOffset), int(h.IndexLen))
		if !ok || int64(end) > indexTotal {
			return fmt.Errorf("font %d: index [%d,+%d) outside section of %d: %w",
				h.FontID, h.IndexOffset, h.IndexLen, indexTotal, format.ErrIndexLayout)
		}
		b.fonts[i] = types.FontMeta{
			FontHeader:  h,
			IndexStart:  b.indexStart + int64(h.IndexOffset),
			NodeStart:   b.nodeStart + glyphsBefore*format.GlyphNodeSize,
			BitmapStart: b.bitmapStart + int64(h.GlyphOffset),
			Ordinal:     i,
		}
		glyphsBefore += int64(h.GlyphNum)
	}
	return nil
}

// loadIndex reads the radix tables of every font with one ReadAt and decodes
// them into a single arena block. The region is only touched once the
// tables have been read and decoded, so a failed open leaves it unchanged.
func (b *Bundle) loadIndex(region *alloc.Region) error {
	size := b.nodeStart - b.indexStart
	count := int(size / format.RadixNodeSize)

	raw := make([]byte, size)
	if err := readFull(b.src, raw, b.indexStart); err != nil {
		return wrapIOErr("read radix tables", err)
	}
	decoded := make(format.RadixTable, count)
	if err := format.DecodeRadixTable(decoded, raw); err != nil {
		return wrapFormatErr("radix tables", err)
	}

	nodes, err := alloc.Make[format.RadixNode](region, count)
	if err != nil {
		return wrapFormatErr(fmt.Sprintf("allocate %d radix nodes", count), err)
	}
	copy(nodes, decoded)

	b.tables = make([]format.RadixTable, len(b.fonts))
	for i, f := range b.fonts {
		lo := int(f.IndexOffset) / format.RadixNodeSize
		hi := lo + int(f.IndexLen)/format.RadixNodeSize
		b.tables[i] = format.RadixTable(nodes[lo:hi:hi])
	}
	return nil
}

// find returns the position of fontID in b.fonts by binary search.
func (b *Bundle) find(fontID types.FontID) (int, bool) {
	i := sort.Search(len(b.fonts), func(i int) bool { return b.fonts[i].FontID >= fontID })
	if i < len(b.fonts) && b.fonts[i].FontID == fontID {
		return i, true
	}
	return 0, false
}

// FindFontByID returns the metadata of fontID.
func (b *Bundle) FindFontByID(fontID types.FontID) (types.FontMeta, bool) {
	i, ok := b.find(fontID)
	if !ok {
		return types.FontMeta{}, false
	}
	return b.fonts[i], true
}

// GetFontHeader returns the header of fontID.
func (b *Bundle) GetFontHeader(fontID types.FontID) (types.FontHeader, error) {
	i, ok := b.find(fontID)
	if !ok {
		return types.FontHeader{}, notFound("font %d not in bundle %q", fontID, b.name)
	}
	return b.fonts[i].FontHeader, nil
}

// GetFontHeight returns the line height of fontID.
func (b *Bundle) GetFontHeight(fontID types.FontID) (uint16, error) {
	h, err := b.GetFontHeader(fontID)
	if err != nil {
		return 0, err
	}
	return h.FontHeight, nil
}

// FontIDs lists the font ids in ascending order.
func (b *Bundle) FontIDs() []types.FontID {
	ids := make([]types.FontID, len(b.fonts))
	for i, f := range b.fonts {
		ids[i] = f.FontID
	}
	return ids
}

// Fonts returns a copy of every font's metadata.
func (b *Bundle) Fonts() []types.FontMeta {
	return append([]types.FontMeta(nil), b.fonts...)
}

// Name returns the (truncated) registration name.
func (b *Bundle) Name() string { return b.name }

// Path returns the file path for bundles opened by path, otherwise "".
func (b *Bundle) Path() string { return b.path }

// Version returns the version string from the bundle header.
func (b *Bundle) Version() string { return b.header.Version }

// Header returns the decoded bundle header.
func (b *Bundle) Header() types.BinHeader { return b.header }

// MatchesName reports whether candidate names this bundle. Both sides are
// compared after keeping their trailing format.MaxNameLen bytes, so two long
// paths that share a suffix are treated as the same bundle.
func (b *Bundle) MatchesName(candidate string) bool {
	return b.name == format.TruncateName(candidate)
}

// Close releases the source. The arena memory holding the radix tables is
// owned by the region and is not returned.
func (b *Bundle) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.tables = nil
	if err := b.src.Close(); err != nil {
		return wrapIOErr("close bundle "+b.name, err)
	}
	return nil
}

// ReadVersion reads only the header of the bundle at path and returns its
// version string.
func ReadVersion(path string, start int64) (string, error) {
	src, err := openFile(path)
	if err != nil {
		return "", err
	}
	defer src.Close()

	var hdr [format.BinHeaderSize]byte
	if err := readFull(src, hdr[:], start); err != nil {
		return "", wrapIOErr("read bundle header", err)
	}
	h, err := format.ParseBinHeader(hdr[:])
	if err != nil {
		return "", wrapFormatErr("bundle header", err)
	}
	return h.Version, nil
}
