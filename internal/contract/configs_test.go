package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pfdtrack/pfdstatus/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTempReports creates an empty reports table and returns its path.
func writeTempReports(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reports.csv")
	require.NoError(t, os.WriteFile(path, []byte("ref,date_of_report,this_report_is_being_sent_to,reply_urls\n"), 0o644))
	return path
}

func validInput(path string) *ConfigRawInput {
	return &ConfigRawInput{
		InputPathStr:   path,
		AsOf:           "2024-06-30",
		Output:         "text",
		Limit:          10,
		Precision:      1,
		Color:          "no",
		HistoryBackend: "none",
	}
}

func TestProcessAndValidate(t *testing.T) {
	reports := writeTempReports(t)

	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{"valid minimal config", func(*ConfigRawInput) {}, false},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "xml" }, true},
		{"limit too large", func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, true},
		{"limit zero", func(in *ConfigRawInput) { in.Limit = 0 }, true},
		{"precision too high", func(in *ConfigRawInput) { in.Precision = 3 }, true},
		{"bad color", func(in *ConfigRawInput) { in.Color = "maybe" }, true},
		{"bad reference date", func(in *ConfigRawInput) { in.AsOf = "yesterday-ish" }, true},
		{"relative reference date", func(in *ConfigRawInput) { in.AsOf = "3 days ago" }, false},
		{"window", func(in *ConfigRawInput) { in.Window = "1 month" }, false},
		{"bad window", func(in *ConfigRawInput) { in.Window = "fortnight" }, true},
		{"min received out of range", func(in *ConfigRawInput) { in.MinReceived = 120 }, true},
		{"missing input", func(in *ConfigRawInput) { in.InputPathStr = "" }, true},
		{"input does not exist", func(in *ConfigRawInput) { in.InputPathStr = "/does/not/exist.csv" }, true},
		{"missing reply log", func(in *ConfigRawInput) { in.Replies = "/does/not/exist.csv" }, true},
		{"invalid backend", func(in *ConfigRawInput) { in.HistoryBackend = "redis" }, true},
		{"mysql without connection", func(in *ConfigRawInput) { in.HistoryBackend = "mysql" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput(reports)
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, reports, cfg.InputPath)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	reports := writeTempReports(t)
	input := validInput(reports)
	input.Output = "JSON"
	input.Color = "yes"
	input.HistoryBackend = "SQLite"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.True(t, cfg.UseColors)
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), cfg.ReferenceDate)
	assert.Equal(t, filepath.Join(filepath.Dir(reports), AnalysedFileName), cfg.AnalysedFile)
	assert.Empty(t, cfg.RepliesPath)
	assert.True(t, cfg.WindowStart().IsZero())
}

func TestConfigWindowStart(t *testing.T) {
	cfg := &Config{
		ReferenceDate: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		Window:        30 * 24 * time.Hour,
	}
	assert.Equal(t, time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC), cfg.WindowStart())

	clone := cfg.Clone()
	clone.Window = 0
	assert.NotEqual(t, cfg.Window, clone.Window)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name      string
		backend   schema.DatabaseBackend
		connStr   string
		expectErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "user:pass@tcp(localhost:3306)/pfd", false},
		{"mysql no tcp", schema.MySQLBackend, "user:pass@localhost/pfd", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost user=u dbname=pfd", false},
		{"postgres no dbname", schema.PostgreSQLBackend, "host=localhost user=u", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
