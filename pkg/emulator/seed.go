package emulator

import (
	"fmt"
	"os"

	"github.com/pigeonworks-llc/gus-income/pkg/gus"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML shape of an emulator dataset.
//
//	variable: 1192
//	section: 1046
//	period: 282
//	records:
//	  - year: 2010
//	    region: 33617
//	    category: 7350022
//	    value: "100.5"
//	faults:
//	  - year: 2013
//	    status: 503
type Seed struct {
	Variable int64        `yaml:"variable"`
	Section  int64        `yaml:"section"`
	Period   int64        `yaml:"period"`
	Records  []SeedRecord `yaml:"records"`
	Faults   []SeedFault  `yaml:"faults"`
}

// SeedRecord is one value for a (year, region, category) cell.
type SeedRecord struct {
	Year      int    `yaml:"year"`
	Region    int64  `yaml:"region"`
	Category  int64  `yaml:"category"`
	Value     string `yaml:"value"`
	Precision int    `yaml:"precision"`
}

// SeedFault forces an HTTP status for every request of a year.
type SeedFault struct {
	Year   int `yaml:"year"`
	Status int `yaml:"status"`
}

// LoadSeed reads a seed from a YAML file.
func LoadSeed(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses seed YAML. Missing dataset ids take DefaultDataset values.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if seed.Variable == 0 {
		seed.Variable = DefaultDataset.VariableID
	}
	if seed.Section == 0 {
		seed.Section = DefaultDataset.SectionID
	}
	if seed.Period == 0 {
		seed.Period = DefaultDataset.PeriodID
	}

	for i, r := range seed.Records {
		if r.Year == 0 || r.Region == 0 || r.Category == 0 {
			return nil, fmt.Errorf("record %d: year, region and category are required", i)
		}
		if _, err := decimal.NewFromString(r.Value); err != nil {
			return nil, fmt.Errorf("record %d: invalid value %q: %w", i, r.Value, err)
		}
	}
	for i, f := range seed.Faults {
		if f.Status < 400 || f.Status > 599 {
			return nil, fmt.Errorf("fault %d: status %d is not an HTTP error", i, f.Status)
		}
	}

	return &seed, nil
}

// Apply replaces the store contents with the seed.
// Records keep their file order within each year, so row numbers follow it.
func (s *Store) Apply(seed *Seed) error {
	if err := s.Reset(); err != nil {
		return err
	}
	if err := s.SetDataset(Dataset{VariableID: seed.Variable, SectionID: seed.Section, PeriodID: seed.Period}); err != nil {
		return fmt.Errorf("failed to save dataset: %w", err)
	}

	byYear := make(map[int][]gus.Record)
	for _, r := range seed.Records {
		value, err := decimal.NewFromString(r.Value)
		if err != nil {
			return fmt.Errorf("invalid value %q: %w", r.Value, err)
		}
		byYear[r.Year] = append(byYear[r.Year], gus.Record{
			RowNumber:   int64(len(byYear[r.Year]) + 1),
			VariableID:  seed.Variable,
			SectionID:   seed.Section,
			Position1ID: r.Region,
			Position2ID: r.Category,
			PeriodID:    seed.Period,
			DateID:      int64(r.Year),
			Value:       value,
			Precision:   r.Precision,
		})
	}

	for _, year := range sortedYears(byYear) {
		if err := s.PutYear(year, byYear[year]); err != nil {
			return fmt.Errorf("failed to save %d: %w", year, err)
		}
	}

	for _, f := range seed.Faults {
		if err := s.SetFault(f.Year, f.Status); err != nil {
			return fmt.Errorf("failed to save fault for %d: %w", f.Year, err)
		}
	}

	return nil
}
