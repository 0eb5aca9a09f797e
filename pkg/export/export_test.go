package export

import (
	"bytes"
	"errors"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pigeonworks-llc/gus-income/pkg/income"
	"github.com/pigeonworks-llc/gus-income/pkg/pathutil"
	"github.com/shopspring/decimal"
)

func series(pairs ...any) income.Series {
	var s income.Series
	for i := 0; i < len(pairs); i += 2 {
		s = append(s, income.Point{
			Year:  pairs[i].(int),
			Value: decimal.RequireFromString(pairs[i+1].(string)),
		})
	}
	return s
}

func testResult(s income.Series) *income.Result {
	return &income.Result{
		Selection: income.Selection{
			Region:     "POLSKA",
			RegionID:   33617,
			Category:   "Turystyka",
			CategoryID: 7350022,
		},
		Years:  income.YearRange{From: 2010, To: 2012},
		Series: s,
	}
}

func fixedNow() time.Time {
	return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
}

func newTestExporter(dir string) *Exporter {
	return NewExporter(Config{
		Paths:  pathutil.New(pathutil.Config{OutputDir: dir}),
		Now:    fixedNow,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestCSVRoundTrip(t *testing.T) {
	input := series(2010, "1000", 2011, "1200", 2012, "950")

	var buf bytes.Buffer
	if err := WriteCSV(&buf, input); err != nil {
		t.Fatalf("WriteCSV() returned error: %v", err)
	}

	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV() returned error: %v", err)
	}

	if len(got) != len(input) {
		t.Fatalf("ReadCSV() returned %d points, expected %d", len(got), len(input))
	}
	for i := range input {
		if got[i].Year != input[i].Year || !got[i].Value.Equal(input[i].Value) {
			t.Errorf("point %d = (%d, %s), expected (%d, %s)",
				i, got[i].Year, got[i].Value, input[i].Year, input[i].Value)
		}
	}
}

func TestCSVPreservesPrecision(t *testing.T) {
	input := series(2010, "123456789.123456789", 2011, "0.1", 2012, "-5.25")

	var buf bytes.Buffer
	if err := WriteCSV(&buf, input); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}

	for i := range input {
		if got[i].Value.String() != input[i].Value.String() {
			t.Errorf("value %d = %s, expected %s", i, got[i].Value, input[i].Value)
		}
	}
}

func TestWriteCSVFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, series(2010, "100.5", 2011, "110.2", 2012, "120.0")); err != nil {
		t.Fatal(err)
	}

	expected := "year,income value\n2010,100.5\n2011,110.2\n2012,120\n"
	if buf.String() != expected {
		t.Errorf("WriteCSV() =\n%s\nexpected\n%s", buf.String(), expected)
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "rok,dochody\n2010,1\n"},
		{"bad year", "year,income value\nabc,1\n"},
		{"bad value", "year,income value\n2010,abc\n"},
		{"extra column", "year,income value\n2010,1,2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("ReadCSV() should fail")
			}
		})
	}
}

func TestRenderChartPNG(t *testing.T) {
	tests := []struct {
		name   string
		series income.Series
	}{
		{"rising", series(2010, "100.5", 2011, "110.2", 2012, "120.0")},
		{"single point", series(2010, "42")},
		{"single negative point", series(2022, "-5")},
		{"flat", series(2010, "7", 2011, "7")},
		{"zeros", series(2010, "0", 2011, "0")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RenderChart(&buf, tt.series, "Dochody dla POLSKA - Turystyka (2010-2012)"); err != nil {
				t.Fatalf("RenderChart() returned error: %v", err)
			}

			cfg, err := png.DecodeConfig(&buf)
			if err != nil {
				t.Fatalf("output is not a PNG: %v", err)
			}
			if cfg.Width != ChartWidth || cfg.Height != ChartHeight {
				t.Errorf("PNG size = %dx%d, expected %dx%d", cfg.Width, cfg.Height, ChartWidth, ChartHeight)
			}
		})
	}
}

func TestRenderChartEmpty(t *testing.T) {
	if err := RenderChart(io.Discard, nil, "x"); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("RenderChart() error = %v, expected ErrEmptySeries", err)
	}
}

func TestChartTitle(t *testing.T) {
	got := ChartTitle("POLSKA", "Turystyka", income.DefaultYears)
	if got != "Dochody dla POLSKA - Turystyka (2010-2022)" {
		t.Errorf("ChartTitle() = %q", got)
	}
}

func TestExporterWrite(t *testing.T) {
	dir := t.TempDir()
	e := newTestExporter(dir)

	artifacts, err := e.Write(testResult(series(2010, "100.5", 2011, "110.2", 2012, "120.0")))
	if err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	if artifacts.BaseName != "dochody_POLSKA_Turystyka_20240309" {
		t.Errorf("BaseName = %q", artifacts.BaseName)
	}
	if artifacts.CSVPath != filepath.Join(dir, artifacts.BaseName+".csv") {
		t.Errorf("CSVPath = %q", artifacts.CSVPath)
	}
	if artifacts.ChartPath != filepath.Join(dir, artifacts.BaseName+".png") {
		t.Errorf("ChartPath = %q", artifacts.ChartPath)
	}

	csvData, err := os.ReadFile(artifacts.CSVPath)
	if err != nil {
		t.Fatalf("CSV not written: %v", err)
	}
	if string(csvData) != "year,income value\n2010,100.5\n2011,110.2\n2012,120\n" {
		t.Errorf("CSV content = %q", csvData)
	}

	f, err := os.Open(artifacts.ChartPath)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	defer f.Close()
	if _, err := png.DecodeConfig(f); err != nil {
		t.Errorf("chart is not a PNG: %v", err)
	}
}

func TestExporterWriteIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	e := newTestExporter(dir)
	result := testResult(series(2010, "1000", 2011, "1200", 2012, "950"))

	first, err := e.Write(result)
	if err != nil {
		t.Fatal(err)
	}
	firstCSV, _ := os.ReadFile(first.CSVPath)
	firstPNG, _ := os.ReadFile(first.ChartPath)

	second, err := e.Write(result)
	if err != nil {
		t.Fatal(err)
	}
	secondCSV, _ := os.ReadFile(second.CSVPath)
	secondPNG, _ := os.ReadFile(second.ChartPath)

	if first.CSVPath != second.CSVPath || first.ChartPath != second.ChartPath {
		t.Errorf("same-day runs wrote different paths: %+v vs %+v", first, second)
	}
	if !bytes.Equal(firstCSV, secondCSV) {
		t.Error("CSV output differs between identical runs")
	}
	if len(firstPNG) == 0 || !bytes.Equal(firstPNG, secondPNG) {
		t.Error("chart output differs between identical runs")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("output dir has %d files, expected 2", len(entries))
	}
}

func TestExporterWriteSinglePoint(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts", "2022")
	e := newTestExporter(dir)

	result := testResult(series(2022, "5"))
	result.Years = income.YearRange{From: 2022, To: 2022}

	artifacts, err := e.Write(result)
	if err != nil {
		t.Fatalf("Write() returned error: %v", err)
	}

	csvData, err := os.ReadFile(artifacts.CSVPath)
	if err != nil {
		t.Fatalf("CSV not written: %v", err)
	}
	if string(csvData) != "year,income value\n2022,5\n" {
		t.Errorf("CSV content = %q", csvData)
	}

	f, err := os.Open(artifacts.ChartPath)
	if err != nil {
		t.Fatalf("chart not written: %v", err)
	}
	defer f.Close()
	if _, err := png.DecodeConfig(f); err != nil {
		t.Errorf("chart is not a PNG: %v", err)
	}
}

func TestYearTicksSpanPaddedRange(t *testing.T) {
	tests := []struct {
		name   string
		series income.Series
		labels []string
	}{
		{"single year", series(2022, "5"), []string{"2022"}},
		{"three years", series(2010, "1", 2011, "2", 2012, "3"), []string{"2010", "2011", "2012"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xs := make([]float64, len(tt.series))
			for i, p := range tt.series {
				xs[i] = float64(p.Year)
			}
			r := paddedRange(xs, 0.5)
			ticks := yearTicks(tt.series, r)

			if len(ticks) != len(tt.labels)+2 {
				t.Fatalf("len(ticks) = %d, expected %d", len(ticks), len(tt.labels)+2)
			}
			first, last := ticks[0], ticks[len(ticks)-1]
			if first.Value != r.Min || last.Value != r.Max || first.Label != "" || last.Label != "" {
				t.Errorf("bound ticks = %+v, %+v, expected unlabeled %v and %v", first, last, r.Min, r.Max)
			}
			if last.Value-first.Value <= 0 {
				t.Errorf("tick span = %v, expected positive", last.Value-first.Value)
			}
			for i, label := range tt.labels {
				if ticks[i+1].Label != label {
					t.Errorf("ticks[%d].Label = %q, expected %q", i+1, ticks[i+1].Label, label)
				}
			}
		})
	}
}

func TestExporterWriteEmptySeries(t *testing.T) {
	dir := t.TempDir()
	e := newTestExporter(dir)

	if _, err := e.Write(testResult(nil)); !errors.Is(err, ErrEmptySeries) {
		t.Errorf("Write() error = %v, expected ErrEmptySeries", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Write() of empty series created %d files", len(entries))
	}
}
