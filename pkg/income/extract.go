package income

import (
	"github.com/pigeonworks-llc/gus-income/pkg/gus"
	"github.com/shopspring/decimal"
)

// Extraction is the result of scanning one year's records.
// Found reports whether a matching record existed; Value is only
// meaningful when it did.
type Extraction struct {
	Year  int
	Found bool
	Value decimal.Decimal
}

// Extract returns the value of the first record whose region and category
// both match. Later duplicates are ignored.
func Extract(year int, records []gus.Record, regionID, categoryID int64) Extraction {
	for _, r := range records {
		if r.Position1ID == regionID && r.Position2ID == categoryID {
			return Extraction{Year: year, Found: true, Value: r.Value}
		}
	}
	return Extraction{Year: year}
}
