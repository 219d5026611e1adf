package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/glyphkit/pkg/types"
)

var verifyOffset int64

func init() {
	cmd := newVerifyCmd()
	cmd.Flags().Int64Var(&verifyOffset, "offset", 0, "Byte offset of the bundle inside the file")
	rootCmd.AddCommand(cmd)
}

func newVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <bundle>",
		Short: "Check every index entry, glyph node and bitmap range",
		Long: `The verify command walks each font's radix index, reads every glyph
node it reaches and checks the node against the path that led to it and
against the bitmap section. Nodes the index never reaches are reported too.

The command fails when any error or critical issue is found.

Example:
  fontctl verify fonts/ui.bin
  fontctl verify fonts/ui.bin --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(args)
		},
	}
}

func runVerify(args []string) error {
	b, done, err := openBundle(args[0], verifyOffset)
	if err != nil {
		return err
	}
	defer done()

	report, err := b.Verify()
	if err != nil {
		return err
	}
	report.FilePath = args[0]

	if jsonOut {
		if err := printJSON(report); err != nil {
			return err
		}
	} else {
		printVerify(report)
	}
	if report.HasErrors() {
		return fmt.Errorf("bundle has %d error(s) and %d critical issue(s)",
			report.Summary.Errors, report.Summary.Critical)
	}
	return nil
}

func printVerify(r *types.DiagnosticReport) {
	printInfo("\nVerifying %s...\n\n", r.FilePath)
	printInfo("  Fonts: %d\n", r.Fonts)
	printInfo("  Glyphs: %d\n\n", r.Glyphs)
	for _, d := range r.Diagnostics {
		if d.Severity == types.SevInfo {
			printVerbose("  %s\n", d)
			continue
		}
		printInfo("  %s\n", d)
	}
	s := r.Summary
	if len(r.Diagnostics) == 0 {
		printInfo("✓ No issues found\n")
		return
	}
	printInfo("\nSummary: %d critical, %d errors, %d warnings, %d info\n",
		s.Critical, s.Errors, s.Warnings, s.Info)
}
