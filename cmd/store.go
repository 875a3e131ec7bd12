package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/internal/iocache"
	"github.com/huangsam/dhtcli/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeSetup loads and validates configuration without opening any store.
// Clearing and migrating must work on a missing or outdated database.
func storeSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	applyPresentation(cfg)
	return nil
}

// sqlitePath resolves the database file used by a SQLite store.
func sqlitePath(connStr, defaultPath string) string {
	if connStr == "" {
		return defaultPath
	}
	return connStr
}

// storeCmd focused on persistence management.
//
// Note: clear and migrate use minimal initialization (storeSetup) instead of
// the full sharedSetup, so they never create tables as a side effect.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage persisted cache entries and the event log",
	Long: `Manage the databases behind the cache.

The entry store keeps every persistent (topic, uuid) entry so the cache
survives restarts. The optional event log records every event the console
drains from the cache.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (in-memory)

Subcommands:
  status  - Show store statistics and connection info
  clear   - Remove all stored data
  migrate - Run database schema migrations
  export  - Export entries and events to Parquet`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display store statistics and connection details",
	Long: `Show detailed information about the entry store and the event log.

Displays:
- Backend type and connection status
- Total number of entries and events
- Last and oldest update timestamps
- Database size

Examples:
  # Check store status
  dhtcli store status

  # Include the event log
  dhtcli store status --eventlog-backend sqlite`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetEntryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(os.Stdout, status)

		events := storeManager.GetEventLogStore()
		if events == nil {
			return
		}
		eventStatus, err := events.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get event log status", err)
		}
		fmt.Println()
		iocache.PrintEventLogStatus(os.Stdout, eventStatus)
	},
}

// storeClearCmd clears the stores.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all persisted entries and recorded events",
	Long: `Delete all stored entries, and the event log when one is configured.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the tables and their migration history

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  dhtcli store export --output-file backup
  dhtcli store clear`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		storePath := sqlitePath(cfg.StoreDBConnect, contract.GetStoreDBFilePath())
		if err := iocache.ClearEntries(cfg.StoreBackend, storePath, cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear entries", err)
		}
		fmt.Println("Entries cleared successfully.")

		if cfg.EventLogBackend == "" {
			return
		}
		eventsPath := sqlitePath(cfg.EventLogDBConnect, contract.GetEventLogDBFilePath())
		if err := iocache.ClearEventLog(cfg.EventLogBackend, eventsPath, cfg.EventLogDBConnect); err != nil {
			contract.LogFatal("Failed to clear event log", err)
		}
		fmt.Println("Event log cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for one store.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the entry store or the event log.

By default, migrates the entry store to the latest version.
Use --migration-set eventlog for the event log and --target-version for specific versions.

Examples:
  # Migrate entries to latest version (default)
  dhtcli store migrate

  # Migrate the event log to a specific version
  dhtcli store migrate --migration-set eventlog --eventlog-backend sqlite --target-version 1

  # Rollback all migrations
  dhtcli store migrate --target-version 0`,
	PreRunE: storeSetup,
	Run: func(_ *cobra.Command, _ []string) {
		set := iocache.MigrationSet(viper.GetString("migration-set"))

		var backend schema.DatabaseBackend
		var connStr string
		switch set {
		case iocache.EntriesMigrations:
			backend, connStr = cfg.StoreBackend, cfg.StoreDBConnect
		case iocache.EventLogMigrations:
			if cfg.EventLogBackend == "" {
				contract.LogFatal("Failed to run migrations", fmt.Errorf("--eventlog-backend is required for the eventlog migration set"))
			}
			backend, connStr = cfg.EventLogBackend, cfg.EventLogDBConnect
		default:
			contract.LogFatal("Failed to run migrations", fmt.Errorf("unknown migration set %q (must be entries or eventlog)", set))
		}

		if err := iocache.Migrate(set, backend, connStr, cfg.TargetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// storeExportCmd exports the stores to Parquet files.
var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export entries and events to Parquet for analytics",
	Long: `Export all stored data to Parquet format for use with analytics tools.

Writes two files next to the --output-file prefix:
- <prefix>.entries.parquet - every persistent entry
- <prefix>.events.parquet  - every recorded event (when the event log is enabled)

Requires: --output-file parameter

Examples:
  # Export all data
  dhtcli store export --output-file dht-data --eventlog-backend sqlite

  # Use with DuckDB for analysis
  duckdb -c "SELECT topic, count(*) FROM read_parquet('dht-data.entries.parquet') GROUP BY topic"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteExport(rootCtx, storeManager, cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export store data", err)
		}
	},
}
