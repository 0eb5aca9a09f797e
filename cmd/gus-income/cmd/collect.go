package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pigeonworks-llc/gus-income/pkg/catalog"
	"github.com/pigeonworks-llc/gus-income/pkg/db"
	"github.com/pigeonworks-llc/gus-income/pkg/export"
	"github.com/pigeonworks-llc/gus-income/pkg/gus"
	"github.com/pigeonworks-llc/gus-income/pkg/income"
	"github.com/pigeonworks-llc/gus-income/pkg/menu"
	"github.com/pigeonworks-llc/gus-income/pkg/pathutil"
	"github.com/spf13/cobra"
)

var (
	regionName    string
	categoryName  string
	yearFrom      int
	yearTo        int
	missingPolicy string
	noHistory     bool
)

// collectCmd represents the collect command.
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Fetch an income series and export chart and CSV",
	Long: `Fetch public income for one region and budget category, one
request per year, then write a PNG chart and a CSV file.

This command:
1. Asks for a region and a category (unless given as flags)
2. Fetches every year in the range from the GUS API
3. Prints the collected series
4. Writes {prefix}_{region}_{category}_{YYYYMMDD}.png and .csv
5. Records the run in SQLite history

Example:
  gus-income collect
  gus-income collect --region POLSKA --category Turystyka
  gus-income collect --region ŚLĄSKIE --category Kultura --from 2015 --missing skip`,
	Run: runCollect,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, collectCmd} {
		c.Flags().StringVar(&regionName, "region", "", "Region name (menu if empty)")
		c.Flags().StringVar(&categoryName, "category", "", "Budget category name (menu if empty)")
		c.Flags().IntVar(&yearFrom, "from", 0, "First year (default GUS_YEAR_FROM)")
		c.Flags().IntVar(&yearTo, "to", 0, "Last year (default GUS_YEAR_TO)")
		c.Flags().StringVar(&missingPolicy, "missing", "", "Missing-year policy: fail or skip (default MISSING_POLICY)")
		c.Flags().BoolVar(&noHistory, "no-history", false, "Do not record the run in history")
	}
}

func runCollect(cmd *cobra.Command, args []string) {
	// Load configuration
	cfg := loadConfig()

	if yearFrom != 0 {
		cfg.GUS.YearFrom = yearFrom
	}
	if yearTo != 0 {
		cfg.GUS.YearTo = yearTo
	}
	if missingPolicy != "" {
		cfg.GUS.MissingPolicy = missingPolicy
	}

	if err := cfg.Validate(); err != nil {
		exitOnError(err, "invalid configuration")
	}

	policy, err := income.ParsePolicy(cfg.GUS.MissingPolicy)
	exitOnError(err, "invalid configuration")

	catalogs, err := catalog.Load(cfg.GUS.CatalogFile)
	exitOnError(err, "failed to load catalogs")

	// Initialize components
	client := gus.NewClient(gus.ClientConfig{
		APIURL:  cfg.GUS.APIURL,
		Lang:    cfg.GUS.Lang,
		Timeout: cfg.GUS.Timeout,
	})

	collector := income.NewCollector(income.CollectorConfig{
		Catalogs: catalogs,
		Fetcher:  client,
		Years:    income.YearRange{From: cfg.GUS.YearFrom, To: cfg.GUS.YearTo},
		Policy:   policy,
	})

	pathResolver := pathutil.New(pathutil.Config{
		OutputDir:    cfg.Output.Dir,
		Prefix:       cfg.Output.Prefix,
		DatabasePath: cfg.Output.HistoryDBPath,
	})

	exporter := export.NewExporter(export.Config{Paths: pathResolver})

	// Pick region and category
	region, category, err := chooseSelection(cmd, catalogs)
	exitOnError(err, "invalid selection")

	sel, err := collector.Resolve(region, category)
	exitOnError(err, "invalid selection")

	// Open history database
	var history *db.RunHistory
	if !noHistory {
		dbPath := pathResolver.GetDatabasePath()
		slog.Debug("Opening database", "path", dbPath)
		conn, err := db.Open(dbPath)
		exitOnError(err, "failed to open history database")
		defer conn.Close()
		history = db.NewRunHistory(conn)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nGenerowanie wykresu dla %s - %s\n", sel.Region, sel.Category)

	startedAt := time.Now()
	slog.Info("Starting collection",
		"region", sel.Region,
		"category", sel.Category,
		"years", collector.Years().String(),
		"policy", policy,
	)

	result, err := collector.CollectSelection(ctx, sel)
	if err != nil {
		recordRun(history, sel, collector.Years(), nil, nil, err, startedAt)
		exitOnError(err, "failed to collect income series")
	}

	printSeries(cmd, result)

	artifacts, err := exporter.Write(result)
	if err != nil {
		recordRun(history, sel, collector.Years(), result, nil, err, startedAt)
		exitOnError(err, "failed to export income series")
	}

	recordRun(history, sel, collector.Years(), result, artifacts, nil, startedAt)

	fmt.Fprintln(out, "\nWykres został zapisany jako PNG")
	fmt.Fprintf(out, "  wykres: %s\n", artifacts.ChartPath)
	fmt.Fprintf(out, "  dane:   %s\n", artifacts.CSVPath)

	slog.Info("Collection completed successfully", "points", len(result.Series), "skipped", len(result.Skipped))
}

// chooseSelection returns the names given as flags, asking through menus
// for any that are missing.
func chooseSelection(cmd *cobra.Command, catalogs *catalog.Catalogs) (string, string, error) {
	region, category := regionName, categoryName
	if region != "" && category != "" {
		return region, category, nil
	}

	prompter := menu.New(cmd.InOrStdin(), cmd.OutOrStdout())

	if region == "" {
		names := catalogs.Regions.Names()
		i, err := prompter.Choose("Dostępne województwa:", "Wybierz numer województwa: ", names)
		if err != nil {
			return "", "", err
		}
		region = names[i]
	}

	if category == "" {
		fmt.Fprintln(cmd.OutOrStdout())
		names := catalogs.Categories.Names()
		i, err := prompter.Choose("Dostępne działy:", "Wybierz numer działu: ", names)
		if err != nil {
			return "", "", err
		}
		category = names[i]
	}

	return region, category, nil
}

func printSeries(cmd *cobra.Command, result *income.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "\nZebrane dane:")
	fmt.Fprintf(out, "%6s  %s\n", "Rok", "Wartość")
	for _, p := range result.Series {
		fmt.Fprintf(out, "%6d  %s\n", p.Year, p.Value.String())
	}
	if len(result.Skipped) > 0 {
		fmt.Fprintf(out, "Pominięte lata (brak danych): %v\n", result.Skipped)
	}
}

// recordRun stores the outcome of a run. A nil history disables recording.
// Failures are logged and do not change the exit status.
func recordRun(history *db.RunHistory, sel income.Selection, years income.YearRange, result *income.Result, artifacts *export.Artifacts, runErr error, startedAt time.Time) {
	if history == nil {
		return
	}

	record := db.RunRecord{
		Region:     sel.Region,
		RegionID:   sel.RegionID,
		Category:   sel.Category,
		CategoryID: sel.CategoryID,
		YearFrom:   years.From,
		YearTo:     years.To,
		Status:     db.RunSucceeded,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
	}
	if runErr != nil {
		record.Status = db.RunFailed
		record.Error = runErr.Error()
	}
	if result != nil {
		for _, p := range result.Series {
			record.Points = append(record.Points, db.PointRecord{Year: p.Year, Value: p.Value})
		}
	}
	if artifacts != nil {
		record.CSVPath = artifacts.CSVPath
		record.ChartPath = artifacts.ChartPath
	}

	id, err := history.RecordRun(record)
	if err != nil {
		slog.Warn("Failed to record run", "error", err)
		return
	}
	slog.Debug("Recorded run", "id", id, "status", record.Status)
}
