// Package cmd implements the termsync command-line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/metaglot/termsync/pkg/logging"
)

var (
	configFile string
	verbose    bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "termsync",
	Short: "Schema-field glossary term reconciliation",
	Long: `Termsync applies glossary terms to the fields of entity schema
metadata, merging with previously persisted state under OVERWRITE or
PATCH semantics.

Term assignment is driven by a pattern table in the configuration file:
each rule maps a field-path pattern to the term URNs attached to fields
it matches.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// Load .env for local development; absence is not an error.
		_ = godotenv.Load()

		if verbose {
			logger := logging.NewConsole()
			logging.SetDefault(logger)
		}
	},
}

// Execute runs the root command with signal-aware context.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"path to termsync configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose console logging")
}
