package income

import "fmt"

// MissingDataError means a year's response had no record for the selection.
type MissingDataError struct {
	Year       int
	RegionID   int64
	CategoryID int64
}

func (e *MissingDataError) Error() string {
	return fmt.Sprintf("no record for region %d, category %d in %d", e.RegionID, e.CategoryID, e.Year)
}

// YearError wraps a fetch failure with the year that caused it.
type YearError struct {
	Year int
	Err  error
}

func (e *YearError) Error() string {
	return fmt.Sprintf("collect %d: %v", e.Year, e.Err)
}

func (e *YearError) Unwrap() error { return e.Err }
