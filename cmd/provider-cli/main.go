// cmd/provider-cli/main.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"provider-ranking-workers/internal/common/config"
	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/scoring"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	GitCommit = "unknown"
)

// app holds state shared by every subcommand once flags are parsed.
type app struct {
	cfgFile string
	output  string
	verbose bool

	cfg    *config.Config
	engine *scoring.Engine
	log    logger.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "provider-cli",
		Short: "Score, rank and index healthcare providers",
		Long: `provider-cli runs the provider scoring engine against local datasets.

Datasets are JSON or YAML files holding a list of providers (or a
"providers" key). Arguments accept doublestar globs such as data/**/*.yaml.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: built-in scoring defaults)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "Output format: table, json")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	root.SetVersionTemplate("provider-cli {{.Version}} (" + GitCommit + ")\n")

	root.AddCommand(
		newScoreCmd(a),
		newRankCmd(a),
		newFreshnessCmd(a),
		newInsightsCmd(a),
		newDashboardCmd(a),
		newIndexCmd(a),
		newRegistryCmd(a),
	)
	return root
}

func (a *app) init() error {
	if a.output != "table" && a.output != "json" {
		return fmt.Errorf("invalid output %q, must be: table or json", a.output)
	}

	level := "warn"
	if a.verbose {
		level = "debug"
	}
	a.log = logger.NewStructured(level, "console")

	cfg, err := config.LoadScoring(a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.engine = cfg.ScoringEngine()
	a.log.Debug("scoring configuration loaded", map[string]interface{}{
		"config":          a.cfgFile,
		"signalThreshold": a.engine.SignalThreshold(),
	})
	return nil
}

func (a *app) jsonOutput() bool {
	return a.output == "json"
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
