package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"sim-backend/internal/report"
	"sim-backend/internal/sim"
)

func newAnalyzeCmd(e *env) *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "analyze <org-id>",
		Short: "Generate a full analysis for an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := e.format()
			if err != nil {
				return err
			}
			var narrow sim.Role
			if role != "" {
				if narrow, err = sim.ParseRole(role); err != nil {
					return err
				}
			}
			res, err := e.analyze(args[0])
			if err != nil {
				return err
			}
			if narrow != "" {
				view := res.ForRole(narrow)
				res = &view
			}
			out := cmd.OutOrStdout()
			return report.Write(out, format, res, func() string {
				return report.New(out).Analysis(res)
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "narrow insights and action items to CEO, CFO or COO")
	return cmd
}

func (e *env) analyze(orgID string) (*sim.AnalysisResult, error) {
	engine, err := e.engine()
	if err != nil {
		return nil, err
	}
	data, err := e.dataset()
	if err != nil {
		return nil, err
	}
	org, err := data.Organization(orgID)
	if err != nil {
		return nil, err
	}
	res, err := engine.GenerateAnalysis(org, data.Initiatives(org.ID))
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", orgID, err)
	}
	return res, nil
}

func newSummarizeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "summarize [org-id]",
		Short: "Summarize one organization's portfolio, or every organization's",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := e.format()
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
			orgID, label := "", "all organizations"
			if len(args) == 1 {
				org, err := data.Organization(args[0])
				if err != nil {
					return err
				}
				orgID, label = org.ID, org.Name
			}
			summary := engine.SummarizePortfolio(data.Initiatives(orgID))
			out := cmd.OutOrStdout()
			return report.Write(out, format, summary, func() string {
				return report.New(out).Summary(label, summary)
			})
		},
	}
}

func newCatalogCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the canonical healthcare initiative catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := e.format()
			if err != nil {
				return err
			}
			entries := sim.Catalog()
			out := cmd.OutOrStdout()
			return report.Write(out, format, entries, func() string {
				return report.New(out).Catalog(entries)
			})
		},
	}
}

func newOrganizationsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "organizations",
		Aliases: []string{"orgs"},
		Short:   "List organizations in the dataset",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := e.format()
			if err != nil {
				return err
			}
			data, err := e.dataset()
			if err != nil {
				return err
			}
			orgs := data.Organizations()
			out := cmd.OutOrStdout()
			return report.Write(out, format, orgs, func() string {
				return report.New(out).Organizations(orgs)
			})
		},
	}
}
