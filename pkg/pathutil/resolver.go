// Package pathutil provides centralized path management for exported
// artifacts and the run-history database.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultPrefix is the artifact base-name prefix ("income" in Polish).
const DefaultPrefix = "dochody"

// DateLayout is the date stamp used in artifact names (YYYYMMDD).
const DateLayout = "20060102"

// PathResolver manages paths for exported charts, CSV files and the history database.
type PathResolver struct {
	outputDir    string
	prefix       string
	databasePath string
}

// Config represents the configuration for PathResolver.
type Config struct {
	// OutputDir is where charts and CSV files are written (default: current directory)
	OutputDir string
	// Prefix is the first segment of every artifact name (default: dochody)
	Prefix string
	// DatabasePath is the path to the SQLite run-history database
	DatabasePath string
}

// New creates a new PathResolver with the given configuration.
// If DatabasePath is empty, it defaults to {OutputDir}/.gus-income/history.db
func New(config Config) *PathResolver {
	outputDir := config.OutputDir
	if outputDir == "" {
		outputDir = "."
	}

	prefix := config.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}

	dbPath := config.DatabasePath
	if dbPath == "" {
		dbPath = filepath.Join(outputDir, ".gus-income", "history.db")
	}

	return &PathResolver{
		outputDir:    outputDir,
		prefix:       prefix,
		databasePath: dbPath,
	}
}

// GetOutputDir returns the artifact directory.
func (p *PathResolver) GetOutputDir() string {
	return p.outputDir
}

// GetDatabasePath returns the database file path.
func (p *PathResolver) GetDatabasePath() string {
	return p.databasePath
}

// BaseName returns the shared artifact name without extension.
// Example: dochody_POLSKA_Turystyka_20240131
func (p *PathResolver) BaseName(region, category string, date time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s",
		p.prefix,
		sanitize(region),
		sanitize(category),
		date.Format(DateLayout),
	)
}

// ArtifactPath returns the full path for an artifact with the given extension.
// Example: ./dochody_POLSKA_Turystyka_20240131.csv
func (p *PathResolver) ArtifactPath(region, category string, date time.Time, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return filepath.Join(p.outputDir, p.BaseName(region, category, date)+"."+ext)
}

// EnsureDir creates a directory if it doesn't exist.
// It creates all parent directories as needed (like mkdir -p).
func (p *PathResolver) EnsureDir(dirPath string) error {
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dirPath, err)
	}
	return nil
}

// EnsureParentDir ensures the parent directory of a file exists.
func (p *PathResolver) EnsureParentDir(filePath string) error {
	dir := filepath.Dir(filePath)
	return p.EnsureDir(dir)
}

// FileExists checks if a file exists.
func (p *PathResolver) FileExists(filePath string) bool {
	_, err := os.Stat(filePath)
	return err == nil
}

// sanitize keeps display names intact except for path separators.
func sanitize(name string) string {
	return strings.NewReplacer("/", "-", "\\", "-").Replace(name)
}
