package bundle

import (
	"errors"
	"fmt"

	"github.com/joshuapare/glyphkit/internal/format"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// LookupGlyph resolves unicode in fontID. The radix walk is in memory; the
// node itself costs one 28-byte read. The returned node's FontID is always
// fontID.
//
// A missing font or code point yields a types.ErrKindNotFound error. A
// radix link or glyph index outside its table, or a node whose stored code
// point disagrees with the index, yields types.ErrKindFormat.
func (b *Bundle) LookupGlyph(unicode uint32, fontID types.FontID) (types.GlyphNode, error) {
	if b.closed {
		return types.GlyphNode{}, types.ErrClosed
	}
	i, ok := b.find(fontID)
	if !ok {
		return types.GlyphNode{}, notFound("font %d not in bundle %q", fontID, b.name)
	}
	idx, err := b.tables[i].Lookup(unicode)
	if errors.Is(err, format.ErrNoGlyph) {
		return types.GlyphNode{}, notFound("U+%04X not in font %d of %q", unicode, fontID, b.name)
	}
	if err != nil {
		return types.GlyphNode{}, wrapFormatErr(fmt.Sprintf("font %d index", fontID), err)
	}
	node, err := b.readNode(b.fonts[i], idx)
	if err != nil {
		return types.GlyphNode{}, err
	}
	if node.Unicode != unicode {
		return types.GlyphNode{}, wrapFormatErr("glyph node",
			fmt.Errorf("font %d index %d holds U+%04X, want U+%04X: %w",
				fontID, idx, node.Unicode, unicode, format.ErrIndexLayout))
	}
	node.FontID = fontID
	return node, nil
}

// readNode reads the glyph node at 1-based index idx of font f.
func (b *Bundle) readNode(f types.FontMeta, idx uint16) (types.GlyphNode, error) {
	if idx == 0 || uint32(idx) > f.GlyphNum {
		return types.GlyphNode{}, wrapFormatErr("glyph index",
			fmt.Errorf("font %d index %d of %d: %w", f.FontID, idx, f.GlyphNum, format.ErrIndexLayout))
	}
	var rec [format.GlyphNodeSize]byte
	off := f.NodeStart + int64(idx-1)*format.GlyphNodeSize
	if err := readFull(b.src, rec[:], off); err != nil {
		return types.GlyphNode{}, wrapIOErr(fmt.Sprintf("read glyph node %d of font %d", idx, f.FontID), err)
	}
	node, err := format.ParseGlyphNode(rec[:])
	if err != nil {
		return types.GlyphNode{}, wrapFormatErr("glyph node", err)
	}
	return node, nil
}

// ReadBitmap copies the bitmap of node into dst and returns its size. node
// must come from this bundle (its FontID selects the bitmap base).
//
// A node with KernOff <= DataOff is rejected with types.ErrCorruptNode
// without touching storage. dst shorter than the bitmap is a capacity error.
func (b *Bundle) ReadBitmap(node types.GlyphNode, dst []byte) (int, error) {
	if b.closed {
		return 0, types.ErrClosed
	}
	if node.KernOff <= node.DataOff {
		return 0, &types.Error{
			Kind: types.ErrKindFormat,
			Msg:  fmt.Sprintf("U+%04X font %d: kernOff %d <= dataOff %d", node.Unicode, node.FontID, node.KernOff, node.DataOff),
			Err:  types.ErrCorruptNode,
		}
	}
	i, ok := b.find(node.FontID)
	if !ok {
		return 0, notFound("font %d not in bundle %q", node.FontID, b.name)
	}
	size := node.BitmapSize()
	if len(dst) < size {
		return 0, &types.Error{
			Kind: types.ErrKindCapacity,
			Msg:  fmt.Sprintf("bitmap of U+%04X needs %d bytes, buffer has %d", node.Unicode, size, len(dst)),
		}
	}
	off := b.fonts[i].BitmapStart + int64(node.DataOff)
	if err := readFull(b.src, dst[:size], off); err != nil {
		return 0, wrapIOErr(fmt.Sprintf("read bitmap of U+%04X", node.Unicode), err)
	}
	return size, nil
}

// Walk calls fn for every glyph of fontID in ascending code point order,
// stopping at the first error fn returns. Broken radix links are skipped.
func (b *Bundle) Walk(fontID types.FontID, fn func(types.GlyphNode) error) error {
	if b.closed {
		return types.ErrClosed
	}
	i, ok := b.find(fontID)
	if !ok {
		return notFound("font %d not in bundle %q", fontID, b.name)
	}
	var werr error
	b.tables[i].Walk(func(unicode uint32, idx uint16) {
		if werr != nil {
			return
		}
		node, err := b.readNode(b.fonts[i], idx)
		if err != nil {
			werr = err
			return
		}
		node.FontID = fontID
		werr = fn(node)
	}, nil)
	return werr
}

// ReadKern returns the kerning pairs stored after node's bitmap.
func (b *Bundle) ReadKern(node types.GlyphNode) ([]format.KernPair, error) {
	if b.closed {
		return nil, types.ErrClosed
	}
	if node.KernSize == 0 {
		return nil, nil
	}
	i, ok := b.find(node.FontID)
	if !ok {
		return nil, notFound("font %d not in bundle %q", node.FontID, b.name)
	}
	raw := make([]byte, node.KernSize)
	off := b.fonts[i].BitmapStart + int64(node.KernOff)
	if err := readFull(b.src, raw, off); err != nil {
		return nil, wrapIOErr(fmt.Sprintf("read kerning of U+%04X", node.Unicode), err)
	}
	pairs, err := format.DecodeKernPairs(raw)
	if err != nil {
		return nil, wrapFormatErr(fmt.Sprintf("kerning of U+%04X", node.Unicode), err)
	}
	return pairs, nil
}
