package main

import (
	"errors"
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/joshuapare/glyphkit/font/bundle"
	"github.com/joshuapare/glyphkit/internal/pack"
	"github.com/joshuapare/glyphkit/internal/writer"
	"github.com/joshuapare/glyphkit/pkg/types"
)

var (
	packOutput  string
	packVersion string
	packSources []string
	packIDs     []uint
	packSizes   []float64
	packNames   []string
	packRanges  string
)

func init() {
	cmd := newPackCmd()
	cmd.Flags().StringVarP(&packOutput, "output", "o", "", "Output bundle path (required)")
	cmd.Flags().StringVar(&packVersion, "version", "1.0.0", "Version string stored in the bundle header")
	cmd.Flags().StringArrayVar(&packSources, "source", nil, "Glyph source, repeatable (basic, goregular, gomono, ..., file.ttf, file.otf, file.fnt)")
	cmd.Flags().UintSliceVar(&packIDs, "id", nil, "Font id for each --source")
	cmd.Flags().Float64SliceVar(&packSizes, "size", []float64{16}, "Pixel size for each --source (the last value repeats)")
	cmd.Flags().StringArrayVar(&packNames, "name", nil, "Font name for each --source")
	cmd.Flags().StringVar(&packRanges, "ranges", "", "Code point ranges, e.g. 0x20-0x7e,U+4E2D (default: source repertoire or printable ASCII)")
	_ = cmd.MarkFlagRequired("output")
	_ = cmd.MarkFlagRequired("source")
	rootCmd.AddCommand(cmd)
}

func newPackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pack -o <bundle> --source <src> --id <n> [--source <src> --id <n> ...]",
		Short: "Build a bundle from font sources",
		Long: `The pack command rasterizes one font per --source and writes them into a
single bundle. Sources can be the built-in basicfont face ("basic"), one of
the Go fonts (goregular, gobold, goitalic, gomono, gomonobold), a TrueType
or OpenType file, or a BMFont .fnt descriptor with its page images.

Each --source pairs with the --id, --size and --name at the same position.
Kerning pairs between packed glyphs are stored with the glyphs.

Example:
  fontctl pack -o ui.bin --source goregular --id 7 --size 16
  fontctl pack -o all.bin --source gomono --id 9 --source cjk.ttf --id 12 --size 14,20 --ranges 0x20-0x7e,0x4e00-0x4eff`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack()
		},
	}
}

func runPack() error {
	if len(packIDs) != len(packSources) {
		return fmt.Errorf("got %d --source but %d --id", len(packSources), len(packIDs))
	}
	if len(packSizes) == 0 {
		return errors.New("--size needs at least one value")
	}
	if len(packNames) > len(packSources) {
		return errors.New("more --name than --source")
	}
	var ranges []pack.Range
	if packRanges != "" {
		var err error
		if ranges, err = pack.ParseRanges(packRanges); err != nil {
			return err
		}
	}

	b := bundle.NewBuilder(packVersion)
	for i, spec := range packSources {
		size := packSizes[min(i, len(packSizes)-1)]
		printVerbose("Loading %s at %gpx\n", spec, size)
		src, err := pack.Open(spec, size)
		if err != nil {
			return fmt.Errorf("source %s: %w", spec, err)
		}
		if packIDs[i] > math.MaxUint16 {
			return fmt.Errorf("font id %d out of range", packIDs[i])
		}
		opts := pack.Options{ID: types.FontID(packIDs[i]), Ranges: ranges}
		if i < len(packNames) {
			opts.Name = packNames[i]
		}
		rep, err := pack.AddFont(b, src, opts)
		if err != nil {
			return fmt.Errorf("source %s: %w", spec, err)
		}
		printInfo("Font %d (%s): %d glyphs, %d kerning pairs\n", opts.ID, src.Name(), rep.Glyphs, rep.Kerning)
		if len(rep.Skipped) > 0 {
			printVerbose("  %d requested code points missing from %s\n", len(rep.Skipped), spec)
		}
	}

	if err := b.Emit(&writer.FileWriter{Path: packOutput}); err != nil {
		return err
	}
	printInfo("Wrote %s (%d fonts)\n", packOutput, b.FontCount())
	return nil
}
