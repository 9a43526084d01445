package cmd

import (
	"errors"
	"fmt"

	"github.com/huangsam/roomspot/internal/contract"
	"github.com/huangsam/roomspot/internal/iocache"
	"github.com/huangsam/roomspot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errHistoryDisabled is returned by history commands when no backend is configured.
var errHistoryDisabled = errors.New("history tracking is disabled. Set --history-backend to enable it")

// historyBackendFromConfig reads and validates the history backend settings.
func historyBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend, err := contract.ParseBackend(viper.GetString("history-backend"))
	if err != nil {
		return "", "", fmt.Errorf("history: %w", err)
	}
	connStr := viper.GetString("history-db-connect")

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup() error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// Initialize stores with the loaded config (no room cache for history commands)
	if err := iocache.InitStores(schema.NoneBackend, "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize stores or create tables,
// allowing migrations to run on a fresh database.
func historyMigrateSetup() error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd focused on search history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup used by search commands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage search history tracking and exports",
	Long: `Manage the history of past searches.

When enabled with --history-backend, Roomspot records every search run:
- Run metadata (time, location, building, window, duration)
- Every ranked room with its score, label and signal breakdown

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, the default)

Subcommands:
  status  - Show history tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # Check tracking status
  roomspot history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  roomspot history export --history-backend sqlite --output-file roomspot`,
}

// historyClearCmd clears the search history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all search history",
	Long: `Delete all stored search runs and ranked rooms.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  roomspot history export --output-file backup
  roomspot history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Release the open store before its file or tables go away
		iocache.CloseCaching()
		if err := iocache.ClearHistory(cfg.HistoryBackend, contract.GetHistoryDBFilePath(), cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear search history", err)
		}
		fmt.Println("Search history cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history tracking statistics and connection details",
	Long: `Show detailed information about search history tracking.

Displays:
- Backend type and connection status
- Total number of search runs stored
- Last and oldest search run timestamps
- Total ranked rooms recorded
- Database table sizes

Examples:
  # Check history tracking status
  roomspot history status`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetHistoryStore()
		if store == nil {
			contract.LogFatal("Failed to get history status", errHistoryDisabled)
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyExportCmd exports search history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export search history to Parquet for BI tools and analytics",
	Long: `Export all stored search history to Parquet format.

Exports two datasets:
- <output-file>.search_runs.parquet  - metadata about each search
- <output-file>.scored_rooms.parquet - every ranked room with its breakdown

Requires: --output-file parameter

Examples:
  # Export all data
  roomspot history export --output-file roomspot

  # Use with DuckDB for analysis
  duckdb -c "SELECT room_id, avg(score) FROM 'roomspot.scored_rooms.parquet' GROUP BY 1"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(iocache.Manager.GetHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export search history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the search history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  roomspot history migrate

  # Migrate to specific version
  roomspot history migrate --target-version 2

  # Rollback to initial state
  roomspot history migrate --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
