package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/joshuapare/glyphkit/internal/logging"
	"github.com/joshuapare/glyphkit/pkg/fontengine"
)

// previewSettle is how long a burst of file events is coalesced before the
// engine is rebuilt.
const previewSettle = 150 * time.Millisecond

var (
	previewFlags engineFlags
	previewWatch bool
)

func init() {
	cmd := newPreviewCmd()
	previewFlags.register(cmd)
	cmd.Flags().BoolVar(&previewWatch, "watch", false, "Re-render whenever the config or a bundle file changes")
	rootCmd.AddCommand(cmd)
}

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview [flags] <text>...",
		Short: "Render text and re-render when the fonts change",
		Long: `The preview command renders like render. With --watch it keeps running,
rebuilding the engine and rendering again each time the config file or one
of the registered bundles is written, for example by a "fontctl pack" run
in another terminal. Interrupt to stop.

Example:
  fontctl preview --config fonts.toml --watch "The quick brown fox"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPreview(ctx, args)
		},
	}
}

func runPreview(ctx context.Context, args []string) error {
	text := joinText(args)
	opts, err := previewFlags.engineOptions()
	if err != nil {
		return err
	}
	paths := previewFlags.watched(opts)

	draw := func() error {
		// The config may have changed, so options are reloaded each time.
		opts, err := previewFlags.engineOptions()
		if err != nil {
			return err
		}
		eng, err := fontengine.New(opts)
		if err != nil {
			return err
		}
		defer eng.Close()
		out, err := renderText(eng, &previewFlags, text)
		if err != nil {
			return err
		}
		printInfo("%s", out)
		return nil
	}

	if err := draw(); err != nil && !previewWatch {
		return err
	} else if err != nil {
		printError("%v\n", err)
	}
	if !previewWatch {
		return nil
	}

	printVerbose("Watching %d file(s)\n", len(paths))
	return watchLoop(ctx, paths, func() {
		printInfo("\n--- %s ---\n", time.Now().Format(time.TimeOnly))
		if err := draw(); err != nil {
			printError("%v\n", err)
		}
	})
}

// watchLoop calls onChange after writes to any of paths settle, until ctx
// is done. The parent directories are watched so files replaced by rename
// keep being tracked.
func watchLoop(ctx context.Context, paths []string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		files[abs] = true
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := w.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}

	settle := time.NewTimer(previewSettle)
	settle.Stop()
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !files[filepath.Clean(e.Name)] {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			logging.L.Debug("bundle changed", "file", e.Name, "op", e.Op.String())
			settle.Reset(previewSettle)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.L.Warn("watch error", "error", err)
		case <-settle.C:
			onChange()
		}
	}
}
