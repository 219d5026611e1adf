package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/glyphkit/pkg/types"
)

var infoOffset int64

func init() {
	rootCmd.AddCommand(newInfoCmd())
}

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info <bundle>",
		Short: "Print bundle header and font table",
		Long: `The info command validates a bundle's headers and prints its version
and the fonts it contains: id, line height, ascender/descender, glyph count
and name.

Example:
  fontctl info fonts/ui.bin
  fontctl info firmware.img --offset 0x40000 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args)
		},
	}
	cmd.Flags().Int64Var(&infoOffset, "offset", 0, "Byte offset of the bundle inside the file")
	return cmd
}

type bundleInfo struct {
	File    string           `json:"file"`
	Size    int64            `json:"size"`
	Version string           `json:"version"`
	Fonts   []types.FontMeta `json:"fonts"`
}

func runInfo(args []string) error {
	b, done, err := openBundle(args[0], infoOffset)
	if err != nil {
		return err
	}
	defer done()

	info := bundleInfo{File: args[0], Version: b.Version(), Fonts: b.Fonts()}
	if st, err := os.Stat(args[0]); err == nil {
		info.Size = st.Size()
	}

	if jsonOut {
		return printJSON(info)
	}

	printInfo("\nBundle Information:\n")
	printInfo("  File: %s\n", info.File)
	printInfo("  Size: %s\n", humanSize(info.Size))
	printInfo("  Version: %s\n", info.Version)
	printInfo("  Fonts: %d\n\n", len(info.Fonts))
	printInfo("  %4s  %6s  %5s  %6s  %7s  %s\n", "ID", "HEIGHT", "ASC", "DESC", "GLYPHS", "NAME")
	for _, f := range info.Fonts {
		printInfo("  %4d  %6d  %5d  %6d  %7d  %s\n",
			f.FontID, f.FontHeight, f.Ascender, f.Descender, f.GlyphNum, f.Name)
		printVerbose("        index @0x%X (%d B)  nodes @0x%X  bitmaps @0x%X\n",
			f.IndexStart, f.IndexLen, f.NodeStart, f.BitmapStart)
	}
	return nil
}

func humanSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
