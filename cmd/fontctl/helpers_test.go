package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/joshuapare/glyphkit/internal/testutil"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large renders cannot fill the pipe.
	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	return string(<-done), fnErr
}

// withFlags resets the global output flags after the test.
func withFlags(t *testing.T, asJSON, verb bool) {
	t.Helper()
	jsonOut, verbose, quiet = asJSON, verb, false
	t.Cleanup(func() { jsonOut, verbose, quiet = false, false, false })
}

// decodeJSON unmarshals output into v.
func decodeJSON(t *testing.T, output string, v any) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
}

func primaryPath(t *testing.T) string {
	t.Helper()
	return testutil.WriteFile(t, "primary.bin", testutil.PrimaryBundle(t), 0)
}

func fallbackPath(t *testing.T) string {
	t.Helper()
	return testutil.WriteFile(t, "fallback.bin", testutil.FallbackBundle(t), 0)
}
