package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	compareCmd := &cobra.Command{
		Use:   "compare [message]",
		Short: "Show how the quick body differs from the fully decoded body",
		Long: `Show how the quick body differs from the fully decoded body.

The quick body is found by scanning the raw lines of the message for the first
text part, which is what the body command prints. The decoded body is built
from every inline text part of the MIME tree, which is what the decode command
prints. Lines only in the quick body start with "-" and lines only in the
decoded body start with "+".`,
		Args: cobra.MaximumNArgs(1),
		RunE: RunCompare,
	}

	compareCmd.Flags().Bool("html", false, "compare the HTML bodies instead of the plain text bodies")

	return compareCmd
}

func RunCompare(cmd *cobra.Command, args []string) error {
	html, err := cmd.Flags().GetBool("html")
	if err != nil {
		return err
	}

	m, err := readMessage(cmd, args)
	if err != nil {
		return err
	}

	d, err := m.Decode()
	if err != nil {
		return err
	}

	quick, full := m.Plain(), d.Plain
	if html {
		quick, full = m.HTML(), d.HTML
	}

	return printLineDiff(cmd.OutOrStdout(), quick, full)
}

// printLineDiff writes a line by line diff of a and b. Trailing line breaks
// are ignored.
func printLineDiff(w io.Writer, a, b string) error {
	a = strings.TrimRight(a, "\n") + "\n"
	b = strings.TrimRight(b, "\n") + "\n"

	dmp := diffmatchpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lines)

	for _, diff := range diffs {
		prefix := " "
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}

		for _, line := range strings.SplitAfter(diff.Text, "\n") {
			if line == "" {
				continue
			}
			if _, err := fmt.Fprintln(w, prefix+strings.TrimSuffix(line, "\n")); err != nil {
				return err
			}
		}
	}

	return nil
}
