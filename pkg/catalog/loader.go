package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk shape of a catalog override file.
//
//	regions:
//	  - name: POLSKA
//	    id: 33617
//	categories:
//	  - name: Turystyka
//	    id: 7350022
type FileConfig struct {
	Regions    []Entry `yaml:"regions"`
	Categories []Entry `yaml:"categories"`
}

// Load reads catalogs from a YAML file.
// An empty path returns the built-in defaults. A section missing from the
// file falls back to its built-in table.
func Load(path string) (*Catalogs, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	return Parse(data)
}

// Parse builds catalogs from YAML bytes.
func Parse(data []byte) (*Catalogs, error) {
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	regionEntries := cfg.Regions
	if len(regionEntries) == 0 {
		regionEntries = defaultRegions
	}
	categoryEntries := cfg.Categories
	if len(categoryEntries) == 0 {
		categoryEntries = defaultCategories
	}

	regions, err := New(KindRegion, regionEntries)
	if err != nil {
		return nil, err
	}
	categories, err := New(KindCategory, categoryEntries)
	if err != nil {
		return nil, err
	}

	return &Catalogs{Regions: regions, Categories: categories}, nil
}
