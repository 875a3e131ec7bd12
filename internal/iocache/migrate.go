package iocache

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/schema"
)

//go:embed migrations/*/*/*.sql
var migrationsFS embed.FS

// Each store keeps its own version table so both can share one database.
const (
	entriesMigrationsTable  = "dht_entries_migrations"
	eventLogMigrationsTable = "dht_event_log_migrations"
)

// MigrationSet names the group of migrations to run.
type MigrationSet string

// All migration sets.
const (
	EntriesMigrations  MigrationSet = "entries"
	EventLogMigrations MigrationSet = "eventlog"
)

// migrationsTable returns the version table and default SQLite file for a set.
func (set MigrationSet) migrationsTable() (string, string, error) {
	switch set {
	case EntriesMigrations:
		return entriesMigrationsTable, contract.GetStoreDBFilePath(), nil
	case EventLogMigrations:
		return eventLogMigrationsTable, contract.GetEventLogDBFilePath(), nil
	default:
		return "", "", fmt.Errorf("unknown migration set: %s", set)
	}
}

// Migrate runs database migrations for one store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations (to initial state).
// - If targetVersion > 0, it migrates to the specified version.
func Migrate(set MigrationSet, backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return fmt.Errorf("migrations are not supported for NoneBackend")
	}

	table, defaultPath, err := set.migrationsTable()
	if err != nil {
		return err
	}

	db, err := openDatabase(backend, connStr, defaultPath)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	// Create a migrate driver instance
	var driver database.Driver
	var dialect string
	switch backend {
	case schema.SQLiteBackend:
		dialect = "sqlite"
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: table})
	case schema.MySQLBackend:
		dialect = "mysql"
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: table})
	case schema.PostgreSQLBackend:
		dialect = "postgres"
		driver, err = postgres.WithInstance(db, &postgres.Config{MigrationsTable: table})
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	// Get the migrations subdirectory for this set and dialect
	migrationFS, err := fs.Sub(migrationsFS, path.Join("migrations", string(set), dialect))
	if err != nil {
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}

	sourceDriver, err := iofs.New(migrationFS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "dhtcli", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No %s migration needed. Database is already at the latest version.\n", set)
		} else {
			newVersion, _, _ := m.Version()
			fmt.Printf("Successfully migrated %s from version %d to version %d\n", set, currentVersion, newVersion)
		}

	case targetVersion == 0:
		// Special case: migrate all the way down to version 0 (no migrations applied)
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No %s migration needed. Database is already at version 0\n", set)
		} else {
			fmt.Printf("Successfully rolled back %s from version %d to version 0\n", set, currentVersion)
		}

	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No %s migration needed. Database is already at version %d\n", set, targetVersion)
		} else {
			fmt.Printf("Successfully migrated %s from version %d to version %d\n", set, currentVersion, targetVersion)
		}
	}

	return nil
}
