// Package bundle reads and writes glyph bundle files.
//
// # Overview
//
// A bundle is one physical file holding several logical fonts. Each font
// owns a radix index over the 32-bit code point, a table of fixed-size glyph
// nodes, and a slice of the shared bitmap blob:
//
//	[BinHeader] [FontHeader x fontNum] [radix tables] [glyph-node tables] [bitmap blob]
//
// Opening a bundle validates the headers, derives every section offset once,
// and loads the radix tables of all fonts into arena memory with a single
// read. After that a glyph lookup is an in-memory walk of eight nibbles plus
// one 28-byte read for the node; a bitmap read is one more read of exactly
// the glyph's byte range.
//
// # Opening
//
//	region, _ := alloc.NewBacked(1 << 20)
//	b, err := bundle.Open("fonts/ui.bin", 0, region, bundle.Options{})
//	if err != nil {
//	    return err // *types.Error: format, capacity or io
//	}
//	defer b.Close()
//
//	node, err := b.LookupGlyph('A', 7)
//	if errors.Is(err, types.ErrNotFound) {
//	    // try the next bundle
//	}
//
// # Writing
//
// Builder produces bundles from in-memory glyph data; it is what the packer
// and the tests use.
//
// # Thread Safety
//
// A Bundle is immutable after Open. Lookups only issue ReadAt calls and may
// run concurrently as long as the Source supports concurrent ReadAt (files
// and mapped buffers do).
package bundle
