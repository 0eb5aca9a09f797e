package export

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pigeonworks-llc/gus-income/pkg/income"
	"github.com/pigeonworks-llc/gus-income/pkg/pathutil"
)

// ErrEmptySeries is returned when there is nothing to plot or export.
var ErrEmptySeries = errors.New("income series is empty")

// Artifacts describes the files written for one run.
type Artifacts struct {
	BaseName  string
	CSVPath   string
	ChartPath string
}

// Exporter writes the chart and CSV for a collected result.
type Exporter struct {
	paths  *pathutil.PathResolver
	now    func() time.Time
	logger *slog.Logger
}

// Config configures an Exporter.
type Config struct {
	Paths  *pathutil.PathResolver
	Now    func() time.Time // Default: time.Now
	Logger *slog.Logger
}

// NewExporter creates an Exporter.
func NewExporter(config Config) *Exporter {
	paths := config.Paths
	if paths == nil {
		paths = pathutil.New(pathutil.Config{})
	}
	now := config.Now
	if now == nil {
		now = time.Now
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{paths: paths, now: now, logger: logger}
}

// Write renders the chart and CSV for result. Both are built in memory
// first so a rendering failure leaves no files behind. Existing files with
// the same name (same selection, same day) are overwritten.
func (e *Exporter) Write(result *income.Result) (*Artifacts, error) {
	if result == nil || len(result.Series) == 0 {
		return nil, ErrEmptySeries
	}

	sel := result.Selection
	date := e.now()

	var chartBuf bytes.Buffer
	if err := RenderChart(&chartBuf, result.Series, ChartTitle(sel.Region, sel.Category, result.Years)); err != nil {
		return nil, err
	}

	var csvBuf bytes.Buffer
	if err := WriteCSV(&csvBuf, result.Series); err != nil {
		return nil, err
	}

	artifacts := &Artifacts{
		BaseName:  e.paths.BaseName(sel.Region, sel.Category, date),
		CSVPath:   e.paths.ArtifactPath(sel.Region, sel.Category, date, "csv"),
		ChartPath: e.paths.ArtifactPath(sel.Region, sel.Category, date, "png"),
	}

	if err := e.paths.EnsureParentDir(artifacts.ChartPath); err != nil {
		return nil, err
	}
	if err := os.WriteFile(artifacts.ChartPath, chartBuf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write chart: %w", err)
	}
	if err := os.WriteFile(artifacts.CSVPath, csvBuf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}

	e.logger.Info("Exported series",
		"chart", artifacts.ChartPath,
		"csv", artifacts.CSVPath,
		"points", len(result.Series),
	)

	return artifacts, nil
}
