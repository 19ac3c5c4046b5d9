// Package cli implements simctl, a command line front end to the Strategic
// Impact Matrix engine over YAML fixture datasets.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"sim-backend/internal/fixtures"
	"sim-backend/internal/report"
	"sim-backend/internal/sim"
)

var appVersion = "dev"

// SetVersion sets the version reported by simctl and its MCP server.
func SetVersion(v string) {
	if v != "" {
		appVersion = v
	}
}

const (
	keyThreshold = "threshold"
	keyFixtures  = "fixtures"
	keyFormat    = "format"
)

// env holds the state shared by every subcommand of one command tree.
type env struct {
	v *viper.Viper
}

// NewRootCmd builds the simctl command tree. Flags fall back to
// SIM_QUADRANT_THRESHOLD, SIM_FIXTURES and SIM_FORMAT.
func NewRootCmd() *cobra.Command {
	e := &env{v: viper.New()}

	root := &cobra.Command{
		Use:   "simctl",
		Short: "Strategic Impact Matrix analyses from the command line",
		Long: `simctl scores healthcare strategic initiatives, places them on the
impact/complexity matrix and produces executive insights.

Data comes from the embedded demo dataset or a YAML file passed with --fixtures.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.Float64(keyThreshold, sim.DefaultThreshold, "quadrant threshold on both axes, in (1,5]")
	flags.String(keyFixtures, "", "YAML dataset path (default: embedded demo data)")
	flags.String(keyFormat, string(report.FormatText), "output format: text, json or yaml")

	e.v.SetDefault(keyThreshold, sim.DefaultThreshold)
	e.v.SetDefault(keyFormat, string(report.FormatText))
	_ = e.v.BindEnv(keyThreshold, "SIM_QUADRANT_THRESHOLD")
	_ = e.v.BindEnv(keyFixtures, "SIM_FIXTURES")
	_ = e.v.BindEnv(keyFormat, "SIM_FORMAT")
	for _, key := range []string{keyThreshold, keyFixtures, keyFormat} {
		_ = e.v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		newVersionCmd(),
		newAnalyzeCmd(e),
		newSummarizeCmd(e),
		newCatalogCmd(e),
		newOrganizationsCmd(e),
		newMoveCmd(e),
		newCompareCmd(e),
		newMCPCmd(e),
	)
	return root
}

// Execute runs simctl with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "simctl %s\n", appVersion)
		},
	}
}

func (e *env) engine() (*sim.Engine, error) {
	engine, err := sim.NewEngine(e.v.GetFloat64(keyThreshold), nil)
	if err != nil {
		return nil, fmt.Errorf("threshold: %w", err)
	}
	return engine, nil
}

func (e *env) format() (report.Format, error) {
	return report.ParseFormat(e.v.GetString(keyFormat))
}

func (e *env) dataset() (*fixtures.Dataset, error) {
	path := strings.TrimSpace(e.v.GetString(keyFixtures))
	if path == "" {
		return fixtures.Demo(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	ds, err := fixtures.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load fixtures %s: %w", path, err)
	}
	return ds, nil
}
