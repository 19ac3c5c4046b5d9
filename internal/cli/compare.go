package cli

import (
	"fmt"
	"io"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"sim-backend/internal/report"
	"sim-backend/internal/sim"
)

func newCompareCmd(e *env) *cobra.Command {
	var contextLines int
	cmd := &cobra.Command{
		Use:   "compare <org-a> <org-b>",
		Short: "Unified diff of two organizations' rendered analyses",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := e.analyze(args[0])
			if err != nil {
				return err
			}
			b, err := e.analyze(args[1])
			if err != nil {
				return err
			}
			diff, err := compareAnalyses(args[0], a, args[1], b, contextLines)
			if err != nil {
				return err
			}
			if diff == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "analyses are identical")
				return nil
			}
			_, err = io.WriteString(cmd.OutOrStdout(), diff)
			return err
		},
	}
	cmd.Flags().IntVar(&contextLines, "context", 3, "lines of context around each change")
	return cmd
}

// compareAnalyses diffs the plain text renderings of a and b.
func compareAnalyses(nameA string, a *sim.AnalysisResult, nameB string, b *sim.AnalysisResult, context int) (string, error) {
	plain := report.New(io.Discard)
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(plain.Analysis(a) + "\n"),
		B:        difflib.SplitLines(plain.Analysis(b) + "\n"),
		FromFile: nameA,
		ToFile:   nameB,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s %s: %w", nameA, nameB, err)
	}
	return text, nil
}
