package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	l, err := New(Options{})
	require.NoError(t, err)
	assert.False(t, l.Enabled(t.Context(), slog.LevelError))
}

func TestNew_LevelFilter(t *testing.T) {
	var out bytes.Buffer
	l, err := New(Options{Enabled: true, Level: "warn", Output: &out})
	require.NoError(t, err)

	l.Info("hidden", "k", 1)
	l.Warn("bundle rejected", "name", "ui.bin")

	s := out.String()
	assert.NotContains(t, s, "hidden")
	assert.Contains(t, s, "bundle rejected")
	assert.Contains(t, s, "ui.bin")
}

func TestNew_JSON(t *testing.T) {
	var out bytes.Buffer
	l, err := New(Options{Enabled: true, Format: "json", Output: &out})
	require.NoError(t, err)
	l.Info("bundle registered", "fonts", 2)
	assert.Contains(t, out.String(), `"fonts":2`)
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Options{Enabled: true, Level: "loud"})
	require.Error(t, err)
}

// Test that Init with a LogDir writes to today's file.
func TestInit_LogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	prev := L
	t.Cleanup(func() { L = prev })

	require.NoError(t, Init(Options{Enabled: true, LogDir: dir}))
	L.Info("hello")

	name := filepath.Join(dir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	files := map[string]bool{
		"fontctl-2026-02-25.log": true,  // kept
		"fontctl-2025-12-01.log": false, // pruned
		"fontctl-garbage.log":    true,
		"other-2020-01-01.log":   true,
	}
	for name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	cleanOldLogs(dir, now)

	for name, kept := range files {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.Equal(t, kept, err == nil, name)
	}
}
