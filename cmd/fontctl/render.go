package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/joshuapare/glyphkit/internal/logging"
	"github.com/joshuapare/glyphkit/pkg/fontengine"
	"github.com/joshuapare/glyphkit/pkg/types"
)

// engineFlags select the bundles behind render and preview.
type engineFlags struct {
	config  string
	bundles []string
	font    uint16
	width   int
}

var renderFlags engineFlags

func init() {
	cmd := newRenderCmd()
	renderFlags.register(cmd)
	rootCmd.AddCommand(cmd)
}

func (f *engineFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "Engine config file (TOML)")
	cmd.Flags().StringArrayVarP(&f.bundles, "bundle", "b", nil, "Bundle to register, repeatable (instead of --config)")
	cmd.Flags().Uint16VarP(&f.font, "font", "f", 0, "Font id to render with (default: first font of the first bundle)")
	cmd.Flags().IntVarP(&f.width, "width", "w", 0, "Clip output to this many columns (default: terminal width)")
}

func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render [flags] <text>...",
		Short: "Render text through the font engine as ASCII art",
		Long: `The render command builds a font engine from a config file or a list of
bundles, lays the text out in the requested font (falling back through the
configured font list for missing glyphs) and prints the result as ASCII art.
A literal "\n" in the text starts a new line.

Example:
  fontctl render --config fonts.toml --font 7 "Hello, 世界"
  fontctl render -b ui.bin -b cjk.bin "A\nB"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(args)
		},
	}
}

// engineOptions turns the flags into engine options.
func (f *engineFlags) engineOptions() (fontengine.Options, error) {
	var opts fontengine.Options
	switch {
	case f.config != "" && len(f.bundles) > 0:
		return opts, errors.New("use either --config or --bundle, not both")
	case f.config != "":
		printVerbose("Loading config: %s\n", f.config)
		cfg, err := fontengine.LoadConfig(f.config)
		if err != nil {
			return opts, err
		}
		opts = cfg.Options()
	case len(f.bundles) > 0:
		for _, p := range f.bundles {
			opts.Bundles = append(opts.Bundles, fontengine.BundleConfig{Path: p})
		}
	default:
		return opts, errors.New("no bundles: pass --config or --bundle")
	}
	opts.Logger = logging.L
	return opts, nil
}

// watched returns the files whose change should rebuild the engine.
func (f *engineFlags) watched(opts fontengine.Options) []string {
	var paths []string
	if f.config != "" {
		paths = append(paths, f.config)
	}
	for _, b := range opts.Bundles {
		paths = append(paths, b.Path)
	}
	return paths
}

// fontID picks the requested font, or the first font of the first bundle.
func (f *engineFlags) fontID(eng *fontengine.Engine) (types.FontID, error) {
	if f.font != 0 {
		return types.FontID(f.font), nil
	}
	for _, b := range eng.Bundles() {
		if len(b.Fonts) > 0 {
			return b.Fonts[0].FontID, nil
		}
	}
	return 0, errors.New("no fonts registered")
}

// columns is the clip width: --width, else the terminal width, else none.
func (f *engineFlags) columns() int {
	if f.width > 0 {
		return f.width
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w
	}
	return 0
}

// renderText draws text with eng and returns the ASCII art plus a summary.
func renderText(eng *fontengine.Engine, f *engineFlags, text string) (string, error) {
	id, err := f.fontID(eng)
	if err != nil {
		return "", err
	}
	img, m, err := eng.Render(text, id)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(asciiArt(img, f.columns()))
	printVerbose("font %d: %dx%d px, %d line(s), %d glyph(s)\n", id, m.Width, m.Height, m.Lines, m.Glyphs)
	if len(m.Missing) > 0 {
		fmt.Fprintf(&sb, "missing: %q\n", string(m.Missing))
	}
	return sb.String(), nil
}

func joinText(args []string) string {
	return strings.ReplaceAll(strings.Join(args, " "), `\n`, "\n")
}

func runRender(args []string) error {
	opts, err := renderFlags.engineOptions()
	if err != nil {
		return err
	}
	eng, err := fontengine.New(opts)
	if err != nil {
		return err
	}
	defer eng.Close()

	out, err := renderText(eng, &renderFlags, joinText(args))
	if err != nil {
		return err
	}
	printInfo("%s", out)
	return nil
}
