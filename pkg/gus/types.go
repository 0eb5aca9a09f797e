// Package gus provides a client for the GUS "Dziedzinowe Bazy Wiedzy" API
// and the types it returns.
package gus

import "github.com/shopspring/decimal"

// Record is one row of a variable-data-section response.
type Record struct {
	RowNumber            int64           `json:"rownumber,omitempty"`
	VariableID           int64           `json:"id-zmienna"`
	SectionID            int64           `json:"id-przekroj"`
	Dimension1ID         int64           `json:"id-wymiar-1,omitempty"`
	Position1ID          int64           `json:"id-pozycja-1"` // region
	Dimension2ID         int64           `json:"id-wymiar-2,omitempty"`
	Position2ID          int64           `json:"id-pozycja-2"` // budget category
	PeriodID             int64           `json:"id-okres"`
	PresentationMethodID int64           `json:"id-sposob-prezentacji-miara,omitempty"`
	DateID               int64           `json:"id-daty"` // year
	MissingValueID       int64           `json:"id-brak-wartosci,omitempty"`
	ConfidentialityID    int64           `json:"id-tajnosci,omitempty"`
	FlagID               int64           `json:"id-flaga,omitempty"`
	Value                decimal.Decimal `json:"wartosc"`
	Precision            int             `json:"precyzja,omitempty"`
}

// VariableDataResponse is the body of GET /variable/variable-data-section.
type VariableDataResponse struct {
	PageNumber int      `json:"page-number"`
	PageSize   int      `json:"page-size"`
	PageCount  int      `json:"page-count,omitempty"`
	Data       []Record `json:"data"`
}

// ErrorResponse is the error body the API (and the emulator) return.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
