// Package cmd provides CLI commands for gus-income.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pigeonworks-llc/gus-income/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

// rootCmd represents the base command when called without any subcommands.
// Without a subcommand it runs collect.
var rootCmd = &cobra.Command{
	Use:   "gus-income",
	Short: "Chart regional public income from GUS statistics",
	Long: `gus-income fetches yearly public-income figures for one region
and budget category from the GUS "Dziedzinowe Bazy Wiedzy" API.

It supports:
- Interactive region and category menus, or flags
- A PNG line chart and a CSV export per run
- A SQLite history of runs

Example:
  gus-income
  gus-income collect --region POLSKA --category Turystyka
  gus-income catalog
  gus-income history`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(debug)
	},
	Run: runCollect,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	// Add subcommands
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(historyCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	return cfgFile
}

// setupLogging installs the stderr text logger.
func setupLogging(debugEnabled bool) {
	logLevel := slog.LevelInfo
	if debugEnabled {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)
}

// loadConfig loads configuration and switches to debug logging when DEBUG
// is set in the environment or the .env file.
func loadConfig() *config.Config {
	cfg, err := config.Load(getConfigFile())
	exitOnError(err, "failed to load configuration")

	if cfg.Debug && !debug {
		setupLogging(true)
		slog.Debug("Debug logging enabled by configuration")
	}
	return cfg
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
