// Package income collects a yearly public-income series for one region and
// budget category from the GUS API.
package income

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Point is a single year and its income value.
type Point struct {
	Year  int
	Value decimal.Decimal
}

// Series is an ordered list of points, ascending by year.
type Series []Point

// Years returns the years in the series.
func (s Series) Years() []int {
	years := make([]int, len(s))
	for i, p := range s {
		years[i] = p.Year
	}
	return years
}

// Floats returns the values as float64 for plotting.
func (s Series) Floats() []float64 {
	values := make([]float64, len(s))
	for i, p := range s {
		values[i] = p.Value.InexactFloat64()
	}
	return values
}

// YearRange is an inclusive range of years.
type YearRange struct {
	From int
	To   int
}

// DefaultYears is the range covered by the published dataset.
var DefaultYears = YearRange{From: 2010, To: 2022}

// Validate checks that the range is not inverted.
func (r YearRange) Validate() error {
	if r.From > r.To {
		return fmt.Errorf("invalid year range %d-%d", r.From, r.To)
	}
	return nil
}

// Len returns the number of years in the range.
func (r YearRange) Len() int {
	if r.From > r.To {
		return 0
	}
	return r.To - r.From + 1
}

// Years returns every year in the range in ascending order.
func (r YearRange) Years() []int {
	years := make([]int, 0, r.Len())
	for y := r.From; y <= r.To; y++ {
		years = append(years, y)
	}
	return years
}

func (r YearRange) String() string {
	return fmt.Sprintf("%d-%d", r.From, r.To)
}
