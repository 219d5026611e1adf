package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/joshuapare/glyphkit/internal/format"
	"github.com/joshuapare/glyphkit/internal/pack"
	"github.com/joshuapare/glyphkit/pkg/fontengine"
	"github.com/joshuapare/glyphkit/pkg/types"
)

var (
	lookupOffset int64
	lookupBitmap bool
)

func init() {
	cmd := newLookupCmd()
	cmd.Flags().Int64Var(&lookupOffset, "offset", 0, "Byte offset of the bundle inside the file")
	cmd.Flags().BoolVar(&lookupBitmap, "bitmap", false, "Draw the glyph bitmap")
	rootCmd.AddCommand(cmd)
}

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <bundle> <fontId> <char>",
		Short: "Look up one glyph through the radix index",
		Long: `The lookup command walks a font's radix index for one code point and
prints the glyph node: bearings, advance, bitmap size and offsets, and any
kerning pairs stored with it.

The character may be given literally or as U+XXXX / 0xXXXX.

Example:
  fontctl lookup fonts/ui.bin 7 A
  fontctl lookup fonts/ui.bin 7 U+4E2D --bitmap`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(args)
		},
	}
}

type lookupResult struct {
	Node    types.GlyphNode   `json:"node"`
	Bitmap  []byte            `json:"bitmap,omitempty"`
	Kerning []format.KernPair `json:"kerning,omitempty"`
}

func runLookup(args []string) error {
	id, err := strconv.ParseUint(args[1], 0, 16)
	if err != nil {
		return fmt.Errorf("invalid font id %q: %w", args[1], err)
	}
	r, err := pack.ParseRune(args[2])
	if err != nil {
		return err
	}

	b, done, err := openBundle(args[0], lookupOffset)
	if err != nil {
		return err
	}
	defer done()

	node, err := b.LookupGlyph(uint32(r), types.FontID(id))
	if err != nil {
		return err
	}
	res := lookupResult{Node: node}
	if res.Kerning, err = b.ReadKern(node); err != nil {
		return err
	}
	if (lookupBitmap || jsonOut) && node.BitmapSize() > 0 {
		res.Bitmap = make([]byte, node.BitmapSize())
		if _, err := b.ReadBitmap(node, res.Bitmap); err != nil {
			return err
		}
	}

	if jsonOut {
		return printJSON(res)
	}

	printInfo("\nGlyph U+%04X %q in font %d:\n", node.Unicode, rune(node.Unicode), node.FontID)
	printInfo("  Advance: %d\n", node.Advance)
	printInfo("  Bearing: left %d, top %d\n", node.Left, node.Top)
	printInfo("  Size: %dx%d\n", node.Cols, node.Rows)
	printInfo("  Bitmap: [0x%X, 0x%X) %d bytes\n", node.DataOff, node.KernOff, node.BitmapSize())
	printVerbose("  Data flag: %d\n", node.DataFlag)
	if len(res.Kerning) > 0 {
		printInfo("  Kerning:\n")
		for _, p := range res.Kerning {
			printInfo("    before U+%04X %q: %+d\n", p.Next, rune(p.Next), p.Amount)
		}
	}
	if lookupBitmap && len(res.Bitmap) > 0 {
		img := fontengine.GlyphImage(node, res.Bitmap)
		if img == nil {
			printInfo("\n  (bitmap depth not recognized)\n")
			return nil
		}
		printInfo("\n%s", asciiArt(img, 0))
	}
	return nil
}
