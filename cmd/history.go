package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pfdtrack/pfdstatus/core"
	"github.com/pfdtrack/pfdstatus/internal/contract"
	"github.com/pfdtrack/pfdstatus/internal/history"
	"github.com/pfdtrack/pfdstatus/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyConfig loads the minimal configuration needed for history operations.
func historyConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend, err := contract.ValidateHistoryBackend(viper.GetString("history-backend"), viper.GetString("history-db-connect"))
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = viper.GetString("history-db-connect")

	// Output-related config values (used by trend and export)
	cfg.Output = schema.OutputMode(strings.ToLower(viper.GetString("output")))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'", cfg.Output)
	}
	cfg.OutputFile = viper.GetString("output-file")
	cfg.ResultLimit = viper.GetInt("limit")
	cfg.Precision = viper.GetInt("precision")
	cfg.Width = viper.GetInt("width")

	colors, err := contract.ParseBoolString(viper.GetString("color"))
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors
	color.NoColor = !colors
	return nil
}

// historySetup loads history config and opens the store.
// This is used by commands that need history access without a reports table.
func historySetup() error {
	if err := historyConfig(); err != nil {
		return err
	}
	if err := history.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyConfigWrapper loads history config without opening the store, so that
// migrate and clear can run against a fresh or broken database.
func historyConfigWrapper(_ *cobra.Command, _ []string) error {
	return historyConfig()
}

// sqliteHistoryPath returns the SQLite file the configured history lives in.
func sqliteHistoryPath() string {
	if cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return contract.GetHistoryDBFilePath()
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup. This avoids requiring a reports table for history operations.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the history of analyse runs",
	Long: `Manage the run history used to track the received percent over time.

Every 'pfdstatus analyse' run stores:
- Run metadata (UUID, timestamp, reference date, input paths)
- Totals of reports and requests, and the overall received percent
- The per-recipient request counts

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  trend   - Show the received percent of recent runs
  export  - Export data to Parquet for analytics
  clear   - Remove all history
  migrate - Run database schema migrations`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run history statistics and connection details",
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := history.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", fmt.Errorf("history store is not initialized"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintStatus(os.Stdout, status)
	},
}

// historyTrendCmd shows the received percent over recent runs.
var historyTrendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show the requests received percent of recent runs",
	Long: `Show the overall requests received percent of the most recent runs, oldest
first, with the change from the previous run.

Examples:
  # Last 10 runs
  pfdstatus history trend --limit 10

  # As CSV for plotting
  pfdstatus history trend --output csv --output-file trend.csv`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteTrend(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot show trend", err)
		}
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored runs and recipient counts to Parquet.

Requires: --output-file parameter. Two files are written next to it,
<output-file>.history_runs.parquet and <output-file>.history_recipients.parquet.

Examples:
  pfdstatus history export --output-file pfd
  duckdb -c "SELECT * FROM read_parquet('pfd.history_runs.parquet')"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ExecuteExport(history.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all run history",
	Long: `Delete all stored runs and recipient counts.

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: historyConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.ClearHistory(cfg.HistoryBackend, sqliteHistoryPath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  pfdstatus history migrate

  # Rollback to initial state
  pfdstatus history migrate --target-version 0`,
	PreRunE: historyConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.HistoryDBConnect
		if cfg.HistoryBackend == schema.SQLiteBackend {
			connStr = sqliteHistoryPath()
		}
		if err := history.MigrateHistory(cfg.HistoryBackend, connStr, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
