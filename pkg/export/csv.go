// Package export renders a collected income series as a PNG line chart and
// a two-column CSV file.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pigeonworks-llc/gus-income/pkg/income"
	"github.com/shopspring/decimal"
)

// CSV column names.
const (
	ColumnYear  = "year"
	ColumnValue = "income value"
)

// WriteCSV writes the header row and one row per point, in series order.
func WriteCSV(w io.Writer, series income.Series) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{ColumnYear, ColumnValue}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, p := range series {
		if err := cw.Write([]string{strconv.Itoa(p.Year), p.Value.String()}); err != nil {
			return fmt.Errorf("failed to write CSV row for %d: %w", p.Year, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// ReadCSV parses a file produced by WriteCSV.
func ReadCSV(r io.Reader) (income.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty CSV: missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if strings.TrimPrefix(header[0], "\ufeff") != ColumnYear || header[1] != ColumnValue {
		return nil, fmt.Errorf("unexpected CSV header %q", header)
	}

	var series income.Series
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}

		year, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("invalid year %q: %w", row[0], err)
		}
		value, err := decimal.NewFromString(row[1])
		if err != nil {
			return nil, fmt.Errorf("invalid value %q for %d: %w", row[1], year, err)
		}

		series = append(series, income.Point{Year: year, Value: value})
	}

	return series, nil
}
