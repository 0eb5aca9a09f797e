// Package config provides configuration management for gus-income.
// It loads configuration from environment variables and .env files.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration.
type Config struct {
	GUS      GUSConfig
	Output   OutputConfig
	Emulator EmulatorConfig
	Debug    bool
}

// GUSConfig represents upstream API configuration.
type GUSConfig struct {
	APIURL        string
	Timeout       time.Duration
	Lang          string
	YearFrom      int
	YearTo        int
	MissingPolicy string
	CatalogFile   string
}

// OutputConfig represents artifact and history configuration.
type OutputConfig struct {
	Dir           string
	Prefix        string
	HistoryDBPath string
}

// EmulatorConfig represents the local API emulator configuration.
type EmulatorConfig struct {
	Port     string
	DBPath   string
	SeedFile string
}

// Load loads configuration from environment variables.
// It automatically loads .env file from the current directory if available.
// You can optionally specify a custom .env file path.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	timeout, err := parseDurationEnv("GUS_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	yearFrom, err := parseIntEnv("GUS_YEAR_FROM", 2010)
	if err != nil {
		return nil, err
	}
	yearTo, err := parseIntEnv("GUS_YEAR_TO", 2022)
	if err != nil {
		return nil, err
	}

	config := &Config{
		GUS: GUSConfig{
			APIURL:        getEnvOrDefault("GUS_API_URL", "https://api-dbw.stat.gov.pl/api/1.1.0"),
			Timeout:       timeout,
			Lang:          getEnvOrDefault("GUS_LANG", "pl"),
			YearFrom:      yearFrom,
			YearTo:        yearTo,
			MissingPolicy: getEnvOrDefault("MISSING_POLICY", "fail"),
			CatalogFile:   os.Getenv("CATALOG_FILE"),
		},
		Output: OutputConfig{
			Dir:           getEnvOrDefault("OUTPUT_DIR", "."),
			Prefix:        getEnvOrDefault("OUTPUT_PREFIX", "dochody"),
			HistoryDBPath: getEnvOrDefault("HISTORY_DB_PATH", "./.gus-income/history.db"),
		},
		Emulator: EmulatorConfig{
			Port:     getEnvOrDefault("EMULATOR_PORT", "8080"),
			DBPath:   getEnvOrDefault("EMULATOR_DB_PATH", "./data/gus-emulator.db"),
			SeedFile: os.Getenv("EMULATOR_SEED_FILE"),
		},
		Debug: os.Getenv("DEBUG") == "true",
	}

	return config, nil
}

// Validate validates the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string

	if u, err := url.Parse(c.GUS.APIURL); err != nil {
		problems = append(problems, fmt.Sprintf("invalid GUS_API_URL %q: %v", c.GUS.APIURL, err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		problems = append(problems, fmt.Sprintf("invalid GUS_API_URL scheme %q: must be http or https", u.Scheme))
	}

	if c.GUS.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid GUS_TIMEOUT %v: must be positive", c.GUS.Timeout))
	}

	if c.GUS.YearFrom > c.GUS.YearTo {
		problems = append(problems, fmt.Sprintf("invalid year range %d-%d", c.GUS.YearFrom, c.GUS.YearTo))
	}

	if c.GUS.MissingPolicy != "fail" && c.GUS.MissingPolicy != "skip" {
		problems = append(problems, fmt.Sprintf("invalid MISSING_POLICY %q: must be fail or skip", c.GUS.MissingPolicy))
	}

	if c.Output.Dir == "" {
		problems = append(problems, "OUTPUT_DIR cannot be empty")
	}
	if strings.ContainsAny(c.Output.Prefix, `/\`) {
		problems = append(problems, fmt.Sprintf("invalid OUTPUT_PREFIX %q: must not contain path separators", c.Output.Prefix))
	}

	if c.GUS.CatalogFile != "" {
		if _, err := os.Stat(c.GUS.CatalogFile); os.IsNotExist(err) {
			problems = append(problems, fmt.Sprintf("catalog file does not exist: %s", c.GUS.CatalogFile))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration:\n- %s\nPlease check your .env file or environment variables", strings.Join(problems, "\n- "))
	}

	return nil
}

// getEnvOrDefault returns the value of the environment variable or a default value if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an int from an environment variable.
// Returns defaultValue if the environment variable is not set.
func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}

	return parsed, nil
}

// parseDurationEnv parses a time.Duration from an environment variable.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value for %s: %s", key, value)
	}

	return parsed, nil
}
