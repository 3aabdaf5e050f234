package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	config     *string
	traceLevel *string
}{}

// cfg is loaded before any subcommand runs.
var cfg *Config

var rootCmd = &cobra.Command{
	Use:   "ll1",
	Short: "Generate an LL(1) parsing table from a grammar and parse inputs with it",
	Long: `ll1 provides the following features:
- Computes FIRST and FOLLOW sets of a grammar and builds a predictive parsing table.
- Reports every conflict of a grammar that isn't LL(1).
- Parses a source text or a PIF file and prints the derivation tree.
- Runs test cases against a grammar.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setUp,
}

func init() {
	rootFlags.config = rootCmd.PersistentFlags().String("config", "", "config file path (default .ll1.yaml in the current or the home directory)")
	rootFlags.traceLevel = rootCmd.PersistentFlags().String("trace-level", "", "trace level: error, info, or debug")
}

func setUp(cmd *cobra.Command, args []string) error {
	c, err := LoadConfig(*rootFlags.config)
	if err != nil {
		return err
	}
	if *rootFlags.traceLevel != "" {
		c.Trace.Level = *rootFlags.traceLevel
		err := c.Validate()
		if err != nil {
			return err
		}
	}
	cfg = c

	applyTraceLevel(cfg.Trace.Level)
	if !cfg.Color {
		color.NoColor = true
	}

	return nil
}

func Execute() error {
	return rootCmd.Execute()
}
