package bundle

import (
	"fmt"
	"os"

	"github.com/joshuapare/glyphkit/internal/format"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// verifier walks every font of a bundle and records what it finds.
type verifier struct {
	b      *Bundle
	report *types.DiagnosticReport
	size   int64 // source size, -1 when unknown
}

// Verify checks every indexed glyph of every font: radix links, glyph
// indices, node contents and bitmap ranges. Problems are collected into the
// report rather than returned; the error is non-nil only when the bundle is
// closed.
func (b *Bundle) Verify() (*types.DiagnosticReport, error) {
	if b.closed {
		return nil, types.ErrClosed
	}
	v := &verifier{
		b:      b,
		report: &types.DiagnosticReport{FilePath: b.path, Fonts: len(b.fonts)},
		size:   sourceSize(b.src),
	}
	for i := range b.fonts {
		v.font(i)
	}
	v.report.Finalize()
	b.log.Debug("bundle verified",
		"name", b.name,
		"glyphs", v.report.Glyphs,
		"errors", v.report.Summary.Errors,
		"warnings", v.report.Summary.Warnings)
	return v.report, nil
}

func (v *verifier) font(i int) {
	f := v.b.fonts[i]
	seen := make(map[uint16]uint32, f.GlyphNum)

	v.b.tables[i].Walk(func(unicode uint32, idx uint16) {
		v.report.Glyphs++
		if prev, dup := seen[idx]; dup {
			v.add(types.SevWarning, f.NodeStart, "NODE", f.FontID, unicode,
				fmt.Sprintf("glyph index %d shared with U+%04X", idx, prev))
			return
		}
		seen[idx] = unicode
		v.glyph(f, unicode, idx)
	}, func(level, node int, slot uint16) {
		off := f.IndexStart + int64(node)*format.RadixNodeSize
		v.add(types.SevError, off, "RADIX", f.FontID, 0,
			fmt.Sprintf("level %d node %d links to %d (table has %d nodes)",
				level, node, slot, len(v.b.tables[i])))
	})

	if unused := int(f.GlyphNum) - len(seen); unused > 0 {
		v.add(types.SevInfo, f.NodeStart, "NODE", f.FontID, 0,
			fmt.Sprintf("%d of %d glyph nodes not reachable from the index", unused, f.GlyphNum))
	}
}

func (v *verifier) glyph(f types.FontMeta, unicode uint32, idx uint16) {
	nodeOff := f.NodeStart + int64(idx-1)*format.GlyphNodeSize
	node, err := v.b.readNode(f, idx)
	if err != nil {
		sev := types.SevError
		if k, _ := types.KindOf(err); k == types.ErrKindIO {
			sev = types.SevCritical
		}
		v.add(sev, nodeOff, "NODE", f.FontID, unicode, err.Error())
		return
	}
	if node.Unicode != unicode {
		v.add(types.SevError, nodeOff, "NODE", f.FontID, unicode,
			fmt.Sprintf("node %d holds U+%04X", idx, node.Unicode))
		return
	}
	if node.FontID != f.FontID {
		v.add(types.SevWarning, nodeOff, "NODE", f.FontID, unicode,
			fmt.Sprintf("node records font %d", node.FontID))
	}

	bmOff := f.BitmapStart + int64(node.DataOff)
	switch {
	case node.KernOff < node.DataOff:
		v.add(types.SevError, bmOff, "BITMAP", f.FontID, unicode,
			fmt.Sprintf("kernOff %d before dataOff %d", node.KernOff, node.DataOff))
	case node.KernOff == node.DataOff:
		if node.Cols != 0 && node.Rows != 0 {
			v.add(types.SevError, bmOff, "BITMAP", f.FontID, unicode,
				fmt.Sprintf("%dx%d glyph has an empty bitmap", node.Cols, node.Rows))
		}
	default:
		end := f.BitmapStart + int64(node.KernOff) + int64(node.KernSize)
		if v.size >= 0 && end > v.size {
			v.add(types.SevError, bmOff, "BITMAP", f.FontID, unicode,
				fmt.Sprintf("bitmap ends at 0x%X past end of source 0x%X", end, v.size))
		}
	}
}

func (v *verifier) add(sev types.Severity, off int64, structure string, id types.FontID, unicode uint32, issue string) {
	v.report.Add(types.Diagnostic{
		Severity:  sev,
		Offset:    off,
		Structure: structure,
		FontID:    id,
		Unicode:   unicode,
		Issue:     issue,
	})
}

// sourceSize returns the byte size of src when it can tell, otherwise -1.
func sourceSize(src Source) int64 {
	switch s := src.(type) {
	case interface{ Size() int64 }:
		return s.Size()
	case *os.File:
		fi, err := s.Stat()
		if err != nil {
			return -1
		}
		return fi.Size()
	default:
		return -1
	}
}
