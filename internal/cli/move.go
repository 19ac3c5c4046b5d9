package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"sim-backend/internal/report"
	"sim-backend/internal/sim"
)

func newMoveCmd(e *env) *cobra.Command {
	var to, why string
	cmd := &cobra.Command{
		Use:   "move <initiative-id>",
		Short: "Re-score an initiative so it lands in another quadrant",
		Long: `Move adjusts financial impact and operational complexity just enough for
the initiative to classify into the target quadrant and records the
justification in its description. The dataset file is not modified.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := e.format()
			if err != nil {
				return err
			}
			if strings.TrimSpace(to) == "" {
				return errors.New("--to is required")
			}
			target, err := sim.ParseQuadrant(to)
			if err != nil {
				return err
			}
			engine, err := e.engine()
			if err != nil {
				return err
			}
			data, err := e.dataset()
			if err != nil {
				return err
			}
			in, err := data.Initiative(args[0])
			if err != nil {
				return err
			}
			moved, err := engine.MoveToQuadrant(in, target, why)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return report.Write(out, format, moved, func() string {
				return report.New(out).Initiative(moved, engine.Classify(moved))
			})
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "target quadrant (Quick Wins, Strategic Bets, Fill-ins, Money Pits)")
	cmd.Flags().StringVar(&why, "why", "", "justification recorded on the initiative")
	return cmd
}
