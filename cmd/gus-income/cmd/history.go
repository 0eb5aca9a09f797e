package cmd

import (
	"fmt"
	"log/slog"

	"github.com/pigeonworks-llc/gus-income/pkg/db"
	"github.com/pigeonworks-llc/gus-income/pkg/pathutil"
	"github.com/spf13/cobra"
)

var (
	historyLimit int
	showRunID    string
	deleteRunID  string
)

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display run history",
	Long: `Display recent collection runs and statistics.

Shows:
- Total, succeeded and failed runs
- Last run timestamp
- The most recent runs with their outputs

Example:
  gus-income history
  gus-income history --limit 5
  gus-income history --show <run-id>
  gus-income history --delete <run-id>`,
	Run: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Number of runs to list")
	historyCmd.Flags().StringVar(&showRunID, "show", "", "Show one run with its values")
	historyCmd.Flags().StringVar(&deleteRunID, "delete", "", "Delete one run")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	pathResolver := pathutil.New(pathutil.Config{
		OutputDir:    cfg.Output.Dir,
		Prefix:       cfg.Output.Prefix,
		DatabasePath: cfg.Output.HistoryDBPath,
	})

	dbPath := pathResolver.GetDatabasePath()
	if !pathResolver.FileExists(dbPath) {
		fmt.Fprintf(cmd.OutOrStdout(), "No runs recorded yet (%s)\n", dbPath)
		return
	}
	slog.Debug("Opening database", "path", dbPath)

	conn, err := db.Open(dbPath)
	exitOnError(err, "failed to open database")
	defer conn.Close()

	history := db.NewRunHistory(conn)
	out := cmd.OutOrStdout()

	switch {
	case deleteRunID != "":
		deleted, err := history.DeleteRun(deleteRunID)
		exitOnError(err, "failed to delete run")
		if !deleted {
			exitOnError(fmt.Errorf("run %s not found", deleteRunID), "failed to delete run")
		}
		fmt.Fprintf(out, "Deleted run %s\n", deleteRunID)
		return

	case showRunID != "":
		run, err := history.GetRun(showRunID)
		exitOnError(err, "failed to get run")
		if run == nil {
			exitOnError(fmt.Errorf("run %s not found", showRunID), "failed to get run")
		}
		fmt.Fprintf(out, "\nRun %s\n", run.ID)
		fmt.Fprintf(out, "  %s - %s (%d-%d)\n", run.Region, run.Category, run.YearFrom, run.YearTo)
		fmt.Fprintf(out, "  status:   %s\n", run.Status)
		if run.Error != "" {
			fmt.Fprintf(out, "  error:    %s\n", run.Error)
		}
		if run.ChartPath != "" {
			fmt.Fprintf(out, "  chart:    %s\n", run.ChartPath)
			fmt.Fprintf(out, "  csv:      %s\n", run.CSVPath)
		}
		fmt.Fprintf(out, "  started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
		for _, p := range run.Points {
			fmt.Fprintf(out, "  %6d  %s\n", p.Year, p.Value.String())
		}
		fmt.Fprintln(out)
		return
	}

	stats, err := history.GetStats()
	exitOnError(err, "failed to get statistics")

	fmt.Fprintln(out, "\n=== Run Statistics ===")
	fmt.Fprintf(out, "Total runs:     %d\n", stats.TotalRuns)
	fmt.Fprintf(out, "Succeeded runs: %d\n", stats.SucceededRuns)
	fmt.Fprintf(out, "Failed runs:    %d\n", stats.FailedRuns)
	if stats.LastRun.Valid {
		fmt.Fprintf(out, "Last run:       %s\n", stats.LastRun.String)
	} else {
		fmt.Fprintf(out, "Last run:       (never)\n")
	}

	runs, err := history.ListRuns(historyLimit)
	exitOnError(err, "failed to list runs")

	if len(runs) > 0 {
		fmt.Fprintln(out, "\n=== Recent Runs ===")
	}
	for _, run := range runs {
		fmt.Fprintf(out, "%s  %s  %-9s  %s - %s (%d-%d)\n",
			run.ID,
			run.StartedAt.Format("2006-01-02 15:04"),
			run.Status,
			run.Region,
			run.Category,
			run.YearFrom,
			run.YearTo,
		)
	}

	fmt.Fprintln(out)
}
