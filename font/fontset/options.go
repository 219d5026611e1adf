package fontset

import (
	"io"
	"log/slog"
)

// Options configures a Manager.
type Options struct {
	// Mapped opens bundles registered by path through a read-only memory
	// mapping instead of positional file reads.
	// Default: false
	Mapped bool

	// Logger receives registration and resolution events.
	// Default: discard
	Logger *slog.Logger
}

// DefaultOptions returns the options used when New is given nil.
func DefaultOptions() *Options {
	return &Options{
		Mapped: false,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}
