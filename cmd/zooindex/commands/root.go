package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	rulesPath      string
	token          string
	dataDir        string
	docsDir        string
	benchmarkMode  string
	benchmarkCode  string
	benchmarkLabel string
	useAdjFactor   bool
	verbose        bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "zooindex",
	Short: "A-share animal theme index",
	Long: `A-share Zoo Index CLI

Equal-weighted index of A-share stocks whose names contain animal keywords,
tracked as strict and extended NAV series against a benchmark.

Usage:
  go run ./cmd/zooindex [command]

Examples:
  go run ./cmd/zooindex run --date 20240105
  go run ./cmd/zooindex backfill --start 20240101 --end 20240131
  go run ./cmd/zooindex redraw
  go run ./cmd/zooindex rules check
  go run ./cmd/zooindex scheduler start
  go run ./cmd/zooindex api`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rulesPath, "rules", "", "rules document (default RULES_PATH or rules.yml)")
	flags.StringVar(&token, "token", "", "Tushare Pro token (default TUSHARE_TOKEN)")
	flags.StringVar(&dataDir, "data-dir", "", "data directory (default DATA_DIR or data)")
	flags.StringVar(&docsDir, "docs-dir", "", "docs directory (default DOCS_DIR or docs)")
	flags.StringVar(&benchmarkMode, "benchmark-mode", "", "benchmark mode: index, fund or stock")
	flags.StringVar(&benchmarkCode, "benchmark-code", "", "benchmark security code")
	flags.StringVar(&benchmarkLabel, "benchmark-label", "", "benchmark display label")
	flags.BoolVar(&useAdjFactor, "use-adj-factor", true, "apply adjustment factors to constituent returns")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
