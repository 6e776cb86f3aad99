package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfdtrack/pfdstatus/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit = 25
	MaxResultLimit     = 1000
	DefaultPrecision   = 1
	DefaultMinReceived = 0.0
	AnalysedFileName   = "reports-analysed.csv"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for a run.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath     string
	RepliesPath   string
	AnalysedFile  string
	ReferenceDate time.Time
	Window        time.Duration // Snapshot lookback ending at ReferenceDate (0 = all reports)
	ResultLimit   int
	Precision     int
	Output        schema.OutputMode
	OutputFile    string
	Width         int // Terminal width override (0 = auto-detect)
	MinReceived   float64
	MetricsFile   string

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	AsOf             string `mapstructure:"as-of"`
	Replies          string `mapstructure:"replies"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Limit            int    `mapstructure:"limit"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	MetricsFile      string `mapstructure:"metrics-file"`

	// --- Fields from analyseCmd.Flags() ---
	AnalysedFile string `mapstructure:"analysed-file"`

	// --- Fields from statsCmd.Flags() ---
	Window string `mapstructure:"window"`

	// --- Fields from checkCmd.Flags() ---
	MinReceived float64 `mapstructure:"min-received"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// WindowStart returns the first date inside the snapshot window, or the zero time when unset.
func (c *Config) WindowStart() time.Time {
	if c.Window <= 0 {
		return time.Time{}
	}
	return c.ReferenceDate.Add(-c.Window)
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processReferenceDate(cfg, input); err != nil {
		return err
	}
	if err := processWindow(cfg, input); err != nil {
		return err
	}
	if err := resolveInputPaths(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateHistoryBackend parses and validates the history backend configuration.
func ValidateHistoryBackend(backendStr, connStr string) (schema.DatabaseBackend, error) {
	backend := schema.DatabaseBackend(strings.ToLower(backendStr))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}
	if err := ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", err
	}
	return backend, nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.MetricsFile = input.MetricsFile

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, toml", input.Output)
	}

	// --- 3. Check threshold ---
	if input.MinReceived < 0 || input.MinReceived > 100 {
		return fmt.Errorf("min-received must be between 0 and 100 (received %.2f)", input.MinReceived)
	}
	cfg.MinReceived = input.MinReceived

	// --- 4. Backend Validation ---
	backend, err := ValidateHistoryBackend(input.HistoryBackend, input.HistoryDBConnect)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect

	return nil
}

// processReferenceDate resolves the reference date used for due-date computation.
func processReferenceDate(cfg *Config, input *ConfigRawInput) error {
	ref, err := ParseReferenceDate(input.AsOf, time.Now())
	if err != nil {
		return err
	}
	cfg.ReferenceDate = ref
	return nil
}

// processWindow parses the optional snapshot window.
func processWindow(cfg *Config, input *ConfigRawInput) error {
	if strings.TrimSpace(input.Window) == "" {
		cfg.Window = 0
		return nil
	}
	window, err := ParseLookbackDuration(input.Window)
	if err != nil {
		return fmt.Errorf("invalid window: %w", err)
	}
	cfg.Window = window
	return nil
}

// resolveInputPaths resolves the reports table, reply log and analysed output paths.
func resolveInputPaths(cfg *Config, input *ConfigRawInput) error {
	if input.InputPathStr == "" {
		return fmt.Errorf("a reports table path is required")
	}
	absInput, err := filepath.Abs(input.InputPathStr)
	if err != nil {
		return err
	}
	info, err := os.Stat(absInput)
	if err != nil {
		return fmt.Errorf("cannot read reports table: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("reports table %s is a directory", absInput)
	}
	cfg.InputPath = absInput

	cfg.RepliesPath = ""
	if input.Replies != "" {
		absReplies, err := filepath.Abs(input.Replies)
		if err != nil {
			return err
		}
		if _, err := os.Stat(absReplies); err != nil {
			return fmt.Errorf("cannot read reply log: %w", err)
		}
		cfg.RepliesPath = absReplies
	}

	cfg.AnalysedFile = input.AnalysedFile
	if cfg.AnalysedFile == "" {
		cfg.AnalysedFile = filepath.Join(filepath.Dir(absInput), AnalysedFileName)
	}
	return nil
}
