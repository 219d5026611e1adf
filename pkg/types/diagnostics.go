package types

import (
	"fmt"
	"sort"
	"strings"
)

// -----------------------------------------------------------------------------
// Diagnostics
// -----------------------------------------------------------------------------
//
// Verification of a bundle collects every problem instead of stopping at the
// first one. Lookups on the hot path never produce diagnostics.

// Severity classifies how serious a diagnostic issue is.
type Severity int

const (
	SevInfo     Severity = iota // Informational (unusual but valid)
	SevWarning                  // Suspicious but the glyph still renders
	SevError                    // Glyph inaccessible or bitmap unreadable
	SevCritical                 // Structural corruption, the bundle cannot be opened
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	case SevCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Diagnostic represents a single issue found in a bundle.
type Diagnostic struct {
	Severity  Severity `json:"severity"`
	Offset    int64    `json:"offset"`    // Absolute byte offset in file
	Structure string   `json:"structure"` // "BIN", "FONT", "RADIX", "NODE", "BITMAP"
	FontID    FontID   `json:"font_id"`
	Unicode   uint32   `json:"unicode,omitempty"`
	Issue     string   `json:"issue"`
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s @0x%X font=%d", d.Severity, d.Structure, d.Offset, d.FontID)
	if d.Unicode != 0 {
		fmt.Fprintf(&sb, " U+%04X", d.Unicode)
	}
	sb.WriteString(": ")
	sb.WriteString(d.Issue)
	return sb.String()
}

// DiagnosticReport collects all diagnostics found during a scan.
type DiagnosticReport struct {
	FilePath    string       `json:"file_path,omitempty"`
	Fonts       int          `json:"fonts"`
	Glyphs      int          `json:"glyphs"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Summary     DiagSummary  `json:"summary"`
}

// DiagSummary provides quick statistics.
type DiagSummary struct {
	Critical int `json:"critical"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Add appends a diagnostic and updates the summary.
func (r *DiagnosticReport) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Severity {
	case SevCritical:
		r.Summary.Critical++
	case SevError:
		r.Summary.Errors++
	case SevWarning:
		r.Summary.Warnings++
	case SevInfo:
		r.Summary.Info++
	}
}

// Finalize sorts diagnostics by offset.
func (r *DiagnosticReport) Finalize() {
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		return r.Diagnostics[i].Offset < r.Diagnostics[j].Offset
	})
}

// HasErrors returns true if any errors or critical issues were found.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Critical > 0 || r.Summary.Errors > 0
}
