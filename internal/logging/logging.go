// Package logging builds the slog loggers used by fontctl. Records are
// rendered by charmbracelet/log, which implements slog.Handler; library
// packages only ever see a *slog.Logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// L is the process logger. It discards everything until Init is called.
var L = Discard()

const (
	logPrefix     = "fontctl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures Init.
type Options struct {
	Enabled bool      // If false, all logging is discarded
	Level   string    // debug, info, warn, error. Default: info
	Format  string    // text, json, logfmt. Default: text
	Output  io.Writer // Default: stderr, or a dated file under LogDir
	LogDir  string    // When set, log to LogDir/fontctl-YYYY-MM-DD.log
	Caller  bool      // Report the calling file:line
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// New builds a logger from opts without touching L.
func New(opts Options) (*slog.Logger, error) {
	if !opts.Enabled {
		return Discard(), nil
	}

	level := log.InfoLevel
	if opts.Level != "" {
		lv, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, err
		}
		level = lv
	}

	out := opts.Output
	if opts.LogDir != "" {
		f, err := openDated(opts.LogDir)
		if err != nil {
			return nil, err
		}
		out = f
	}
	if out == nil {
		out = os.Stderr
	}

	h := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		ReportCaller:    opts.Caller,
		Prefix:          "fontctl",
		Formatter:       formatter(opts.Format),
	})
	return slog.New(h), nil
}

// Init replaces L according to opts.
func Init(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	L = l
	return nil
}

func formatter(name string) log.Formatter {
	switch strings.ToLower(name) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// openDated opens today's log file in dir, creating dir as needed, after
// pruning files older than retentionDays.
func openDated(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	cleanOldLogs(dir, time.Now())

	name := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	return os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// cleanOldLogs removes fontctl log files dated before now-retentionDays.
// Errors are ignored.
func cleanOldLogs(dir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		if logDate.Before(cutoff) {
			_ = os.Remove(filepath.Join(dir, name))
		}
	}
}
