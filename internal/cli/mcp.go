package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	simmcp "sim-backend/internal/mcp"
)

func newMCPCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the analysis tools over MCP on stdio",
		Long: `Start an MCP (Model Context Protocol) server on stdio exposing
list_organizations, generate_sim_analysis, summarize_portfolio and
classify_quadrant over the selected dataset.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := e.engine()
			if err != nil {
				return err
			}
			data, err := e.dataset()
			if err != nil {
				return err
			}
			srv := simmcp.NewServer(data, engine, appVersion)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			if err := srv.Run(ctx); err != nil {
				return fmt.Errorf("running MCP server: %w", err)
			}
			return nil
		},
	}
}
