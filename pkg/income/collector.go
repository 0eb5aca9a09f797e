package income

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pigeonworks-llc/gus-income/pkg/catalog"
	"github.com/pigeonworks-llc/gus-income/pkg/gus"
)

// Fetcher retrieves one year of raw records. *gus.Client implements it.
type Fetcher interface {
	FetchYear(ctx context.Context, year int, regionID, categoryID int64) (*gus.VariableDataResponse, error)
}

// MissingPolicy decides what happens when a year has no matching record.
type MissingPolicy string

const (
	// PolicyFail aborts collection with a *MissingDataError.
	PolicyFail MissingPolicy = "fail"
	// PolicySkip leaves the year out of the series and keeps going.
	PolicySkip MissingPolicy = "skip"
)

// ParsePolicy parses a policy name. Empty means PolicyFail.
func ParsePolicy(s string) (MissingPolicy, error) {
	switch MissingPolicy(s) {
	case "", PolicyFail:
		return PolicyFail, nil
	case PolicySkip:
		return PolicySkip, nil
	}
	return "", fmt.Errorf("invalid missing-data policy %q: must be %q or %q", s, PolicyFail, PolicySkip)
}

// Selection is a resolved region/category pair.
type Selection struct {
	Region     string
	RegionID   int64
	Category   string
	CategoryID int64
}

// Result is a completed collection.
type Result struct {
	Selection Selection
	Years     YearRange
	Series    Series
	// Skipped lists years left out under PolicySkip.
	Skipped []int
}

// Collector drives the per-year fetch and extract loop.
type Collector struct {
	catalogs *catalog.Catalogs
	fetcher  Fetcher
	years    YearRange
	policy   MissingPolicy
	logger   *slog.Logger
}

// CollectorConfig configures a Collector.
type CollectorConfig struct {
	Catalogs *catalog.Catalogs
	Fetcher  Fetcher
	Years    YearRange     // Default: DefaultYears
	Policy   MissingPolicy // Default: PolicyFail
	Logger   *slog.Logger
}

// NewCollector creates a Collector.
func NewCollector(config CollectorConfig) *Collector {
	years := config.Years
	if years == (YearRange{}) {
		years = DefaultYears
	}
	policy := config.Policy
	if policy == "" {
		policy = PolicyFail
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	catalogs := config.Catalogs
	if catalogs == nil {
		catalogs = catalog.Default()
	}

	return &Collector{
		catalogs: catalogs,
		fetcher:  config.Fetcher,
		years:    years,
		policy:   policy,
		logger:   logger,
	}
}

// Years returns the configured year range.
func (c *Collector) Years() YearRange {
	return c.years
}

// Resolve looks up both names in the catalogs.
func (c *Collector) Resolve(region, category string) (Selection, error) {
	regionID, categoryID, err := c.catalogs.Resolve(region, category)
	if err != nil {
		return Selection{}, err
	}
	return Selection{
		Region:     region,
		RegionID:   regionID,
		Category:   category,
		CategoryID: categoryID,
	}, nil
}

// Collect resolves the names and fetches every year in the range in
// ascending order. The first error aborts the run and no series is returned.
func (c *Collector) Collect(ctx context.Context, region, category string) (*Result, error) {
	sel, err := c.Resolve(region, category)
	if err != nil {
		return nil, err
	}
	return c.CollectSelection(ctx, sel)
}

// CollectSelection is Collect for an already resolved selection.
func (c *Collector) CollectSelection(ctx context.Context, sel Selection) (*Result, error) {
	if err := c.years.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Selection: sel,
		Years:     c.years,
		Series:    make(Series, 0, c.years.Len()),
	}

	for _, year := range c.years.Years() {
		if err := ctx.Err(); err != nil {
			return nil, &YearError{Year: year, Err: err}
		}

		data, err := c.fetcher.FetchYear(ctx, year, sel.RegionID, sel.CategoryID)
		if err != nil {
			c.logger.Error("Fetch failed", "year", year, "error", err)
			return nil, &YearError{Year: year, Err: err}
		}

		ext := Extract(year, data.Data, sel.RegionID, sel.CategoryID)
		if !ext.Found {
			if c.policy == PolicySkip {
				c.logger.Warn("No matching record, skipping year",
					"year", year,
					"region", sel.Region,
					"category", sel.Category,
				)
				result.Skipped = append(result.Skipped, year)
				continue
			}
			return nil, &MissingDataError{Year: year, RegionID: sel.RegionID, CategoryID: sel.CategoryID}
		}

		c.logger.Debug("Collected value", "year", year, "value", ext.Value.String())
		result.Series = append(result.Series, Point{Year: year, Value: ext.Value})
	}

	c.logger.Info("Collected series",
		"region", sel.Region,
		"category", sel.Category,
		"points", len(result.Series),
		"skipped", len(result.Skipped),
	)

	return result, nil
}
