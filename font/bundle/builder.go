package bundle

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/joshuapare/glyphkit/internal/format"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// FontSpec describes one logical font added to a Builder.
type FontSpec struct {
	ID        types.FontID
	Height    uint16
	Ascender  int16
	Descender int16
	Name      string // at most 32 ISO-8859-1 bytes
}

// GlyphSpec is one glyph added to a Builder. Bitmap may be empty for
// glyphs that only advance the pen (space).
type GlyphSpec struct {
	Unicode uint32
	Left    int16
	Top     int16
	Advance uint16
	Cols    uint16
	Rows    uint16
	Bitmap  []byte
	Kern    []byte
}

// Sink receives a finished bundle image. internal/writer provides file and
// memory sinks.
type Sink interface {
	WriteBundle(buf []byte) error
}

// Builder assembles a bundle in memory. Fonts are emitted in ascending id
// order and glyphs in ascending code point order regardless of insertion
// order.
type Builder struct {
	version string
	fonts   map[types.FontID]*fontBuild
}

type fontBuild struct {
	spec   FontSpec
	glyphs map[uint32]GlyphSpec
}

// NewBuilder returns an empty builder that stamps version into the header.
func NewBuilder(version string) *Builder {
	return &Builder{version: version, fonts: make(map[types.FontID]*fontBuild)}
}

// AddFont declares a font. Ids above format.MaxFontID and repeated ids are
// rejected.
func (b *Builder) AddFont(spec FontSpec) error {
	if int(spec.ID) > format.MaxFontID {
		return &types.Error{Kind: types.ErrKindCapacity, Msg: fmt.Sprintf("font id %d exceeds %d", spec.ID, format.MaxFontID)}
	}
	if _, ok := b.fonts[spec.ID]; ok {
		return &types.Error{Kind: types.ErrKindDuplicate, Msg: fmt.Sprintf("font id %d already added", spec.ID)}
	}
	var probe [format.FontNameSize]byte
	if err := format.EncodeName(probe[:], spec.Name); err != nil {
		return &types.Error{Kind: types.ErrKindFormat, Msg: fmt.Sprintf("font %d name", spec.ID), Err: err}
	}
	b.fonts[spec.ID] = &fontBuild{spec: spec, glyphs: make(map[uint32]GlyphSpec)}
	return nil
}

// AddGlyph adds g to font id. Code point 0 is reserved and repeated code
// points are rejected.
func (b *Builder) AddGlyph(id types.FontID, g GlyphSpec) error {
	f, ok := b.fonts[id]
	if !ok {
		return notFound("font %d not declared", id)
	}
	if g.Unicode == 0 {
		return &types.Error{Kind: types.ErrKindFormat, Msg: "code point 0 is reserved"}
	}
	if _, dup := f.glyphs[g.Unicode]; dup {
		return &types.Error{Kind: types.ErrKindDuplicate, Msg: fmt.Sprintf("U+%04X already in font %d", g.Unicode, id)}
	}
	if len(f.glyphs) >= format.MaxGlyphNum {
		return &types.Error{Kind: types.ErrKindCapacity, Msg: fmt.Sprintf("font %d already has %d glyphs", id, format.MaxGlyphNum)}
	}
	if len(g.Kern) > math.MaxUint16 {
		return &types.Error{Kind: types.ErrKindCapacity, Msg: fmt.Sprintf("U+%04X kerning data is %d bytes", g.Unicode, len(g.Kern))}
	}
	f.glyphs[g.Unicode] = g
	return nil
}

// FontCount returns the number of declared fonts.
func (b *Builder) FontCount() int { return len(b.fonts) }

// GlyphCount returns the number of glyphs added to id.
func (b *Builder) GlyphCount(id types.FontID) int {
	if f, ok := b.fonts[id]; ok {
		return len(f.glyphs)
	}
	return 0
}

// Bytes lays out and encodes the bundle.
func (b *Builder) Bytes() ([]byte, error) {
	if len(b.fonts) == 0 {
		return nil, &types.Error{Kind: types.ErrKindState, Msg: "bundle has no fonts"}
	}

	ids := make([]types.FontID, 0, len(b.fonts))
	for id := range b.fonts {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	type laid struct {
		header types.FontHeader
		table  format.RadixTable
		nodes  []types.GlyphNode
	}
	out := make([]laid, len(ids))
	var blob bytes.Buffer
	var indexLen, glyphTotal int

	for i, id := range ids {
		f := b.fonts[id]
		codes := make([]uint32, 0, len(f.glyphs))
		for c := range f.glyphs {
			codes = append(codes, c)
		}
		slices.Sort(codes)

		table := format.RadixTable{{}}
		nodes := make([]types.GlyphNode, len(codes))
		base := blob.Len()
		for j, c := range codes {
			if err := table.Insert(c, uint16(j+1)); err != nil {
				return nil, &types.Error{Kind: types.ErrKindCapacity, Msg: fmt.Sprintf("font %d index", id), Err: err}
			}
			g := f.glyphs[c]
			dataOff := blob.Len() - base
			blob.Write(g.Bitmap)
			kernOff := blob.Len() - base
			blob.Write(g.Kern)
			if int64(blob.Len()) > math.MaxUint32 {
				return nil, &types.Error{Kind: types.ErrKindCapacity, Msg: "bitmap blob exceeds 4 GiB"}
			}
			nodes[j] = types.GlyphNode{
				Unicode:  c,
				Left:     g.Left,
				Top:      g.Top,
				Advance:  g.Advance,
				Cols:     g.Cols,
				Rows:     g.Rows,
				FontID:   id,
				DataOff:  uint32(dataOff),
				KernOff:  uint32(kernOff),
				KernSize: uint16(len(g.Kern)),
			}
		}
		out[i] = laid{
			header: types.FontHeader{
				FontID:      id,
				FontHeight:  f.spec.Height,
				Ascender:    f.spec.Ascender,
				Descender:   f.spec.Descender,
				IndexOffset: uint32(indexLen),
				IndexLen:    uint32(len(table) * format.RadixNodeSize),
				GlyphNum:    uint32(len(codes)),
				GlyphOffset: uint32(base),
				Name:        f.spec.Name,
			},
			table: table,
			nodes: nodes,
		}
		indexLen += len(table) * format.RadixNodeSize
		glyphTotal += len(codes)
	}

	indexStart := format.BinHeaderSize + len(ids)*format.FontHeaderSize
	nodeStart := indexStart + indexLen
	bitmapStart := nodeStart + glyphTotal*format.GlyphNodeSize
	img := make([]byte, bitmapStart+blob.Len())

	if err := format.PutBinHeader(img, types.BinHeader{Version: b.version, FontNum: uint16(len(ids))}); err != nil {
		return nil, &types.Error{Kind: types.ErrKindFormat, Msg: "bundle header", Err: err}
	}
	nodeOff := nodeStart
	for i, l := range out {
		if err := format.PutFontHeader(img[format.BinHeaderSize+i*format.FontHeaderSize:], l.header); err != nil {
			return nil, &types.Error{Kind: types.ErrKindFormat, Msg: "font header", Err: err}
		}
		if err := format.EncodeRadixTable(img[indexStart+int(l.header.IndexOffset):], l.table); err != nil {
			return nil, &types.Error{Kind: types.ErrKindFormat, Msg: "radix table", Err: err}
		}
		for _, n := range l.nodes {
			if err := format.PutGlyphNode(img[nodeOff:], n); err != nil {
				return nil, &types.Error{Kind: types.ErrKindFormat, Msg: "glyph node", Err: err}
			}
			nodeOff += format.GlyphNodeSize
		}
	}
	copy(img[bitmapStart:], blob.Bytes())
	return img, nil
}

// WriteTo encodes the bundle and writes it to w.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	img, err := b.Bytes()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(img)
	if err != nil {
		return int64(n), wrapIOErr("write bundle", err)
	}
	return int64(n), nil
}

// Emit encodes the bundle and hands it to sink.
func (b *Builder) Emit(sink Sink) error {
	img, err := b.Bytes()
	if err != nil {
		return err
	}
	if err := sink.WriteBundle(img); err != nil {
		return wrapIOErr("emit bundle", err)
	}
	return nil
}
