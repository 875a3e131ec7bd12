package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/schema"
)

// entriesTable is the name of the table for persistent entries.
const entriesTable = "dht_entries"

// EntryStoreImpl handles durable storage of persistent entries using various database backends.
type EntryStoreImpl struct {
	db        *sql.DB
	tableName string
	backend   schema.DatabaseBackend
	connStr   string
}

var _ contract.EntryStore = &EntryStoreImpl{} // Compile-time check

// NewEntryStore initializes and returns a new EntryStore based on the backend type.
func NewEntryStore(tableName string, backend schema.DatabaseBackend, connStr string) (contract.EntryStore, error) {
	// Validate table name to prevent SQL injection
	if err := validateTableName(tableName); err != nil {
		return nil, err
	}

	if backend == schema.NoneBackend {
		// Return a no-op store for disabled persistence
		return &EntryStoreImpl{tableName: tableName, backend: backend, connStr: connStr}, nil
	}

	db, err := openDatabase(backend, connStr, contract.GetStoreDBFilePath())
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(getCreateEntriesQuery(tableName, backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	return &EntryStoreImpl{
		db:        db,
		tableName: tableName,
		backend:   backend,
		connStr:   connStr,
	}, nil
}

// getCreateEntriesQuery returns the CREATE TABLE query for the given backend.
func getCreateEntriesQuery(tableName string, backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(tableName, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entry_topic VARCHAR(255) NOT NULL,
				entry_uuid VARCHAR(255) NOT NULL,
				entry_value LONGBLOB NOT NULL,
				updated_at BIGINT NOT NULL,
				PRIMARY KEY (entry_topic, entry_uuid)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entry_topic TEXT NOT NULL,
				entry_uuid TEXT NOT NULL,
				entry_value BYTEA NOT NULL,
				updated_at BIGINT NOT NULL,
				PRIMARY KEY (entry_topic, entry_uuid)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				entry_topic TEXT NOT NULL,
				entry_uuid TEXT NOT NULL,
				entry_value BLOB NOT NULL,
				updated_at INTEGER NOT NULL,
				PRIMARY KEY (entry_topic, entry_uuid)
			);
		`, quotedTableName)
	}
}

// disabled reports whether the store is a no-op.
func (es *EntryStoreImpl) disabled() bool {
	return es.backend == schema.NoneBackend || es.db == nil
}

// Get retrieves the value of an entry and its update time.
func (es *EntryStoreImpl) Get(ctx context.Context, topic, uuid string) ([]byte, time.Time, error) {
	if es.disabled() {
		return nil, time.Time{}, sql.ErrNoRows
	}

	query := rebind(es.backend, fmt.Sprintf(
		`SELECT entry_value, updated_at FROM %s WHERE entry_topic = ? AND entry_uuid = ?`,
		quoteTableName(es.tableName, es.backend)))

	var value []byte
	var ts int64
	if err := es.db.QueryRowContext(ctx, query, topic, uuid).Scan(&value, &ts); err != nil {
		return nil, time.Time{}, err
	}
	return value, fromUnixNano(ts), nil
}

// Put inserts or replaces an entry.
func (es *EntryStoreImpl) Put(ctx context.Context, topic, uuid string, value []byte, updatedAt time.Time) error {
	if es.disabled() {
		return nil
	}
	_, err := es.db.ExecContext(ctx, es.getUpsertQuery(), topic, uuid, value, toUnixNano(updatedAt))
	return err
}

// getUpsertQuery returns the UPSERT query for the backend.
func (es *EntryStoreImpl) getUpsertQuery() string {
	quotedTableName := quoteTableName(es.tableName, es.backend)
	switch es.backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (entry_topic, entry_uuid, entry_value, updated_at) VALUES (?, ?, ?, ?) AS new
			ON DUPLICATE KEY UPDATE entry_value = new.entry_value, updated_at = new.updated_at`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`INSERT INTO %s (entry_topic, entry_uuid, entry_value, updated_at) VALUES ($1, $2, $3, $4)
			ON CONFLICT (entry_topic, entry_uuid) DO UPDATE SET entry_value = EXCLUDED.entry_value, updated_at = EXCLUDED.updated_at`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`INSERT OR REPLACE INTO %s (entry_topic, entry_uuid, entry_value, updated_at) VALUES (?, ?, ?, ?)`, quotedTableName)
	}
}

// Delete removes an entry and reports whether a row was removed.
func (es *EntryStoreImpl) Delete(ctx context.Context, topic, uuid string) (bool, error) {
	if es.disabled() {
		return false, nil
	}

	query := rebind(es.backend, fmt.Sprintf(
		`DELETE FROM %s WHERE entry_topic = ? AND entry_uuid = ?`,
		quoteTableName(es.tableName, es.backend)))

	res, err := es.db.ExecContext(ctx, query, topic, uuid)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns every entry ordered by topic and uuid.
func (es *EntryStoreImpl) List(ctx context.Context) ([]schema.EntryRecord, error) {
	if es.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(
		`SELECT entry_topic, entry_uuid, entry_value, updated_at FROM %s ORDER BY entry_topic, entry_uuid`,
		quoteTableName(es.tableName, es.backend))

	rows, err := es.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.EntryRecord
	for rows.Next() {
		var record schema.EntryRecord
		var ts int64
		if err := rows.Scan(&record.Topic, &record.UUID, &record.Value, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		record.UpdatedAt = fromUnixNano(ts)
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entries: %w", err)
	}
	return results, nil
}

// Close closes the underlying DB connection.
func (es *EntryStoreImpl) Close() error {
	if es.db != nil {
		return es.db.Close()
	}
	return nil
}

// GetStatus returns status information about the entry store.
func (es *EntryStoreImpl) GetStatus() (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(es.backend),
		Connected: es.db != nil,
	}

	if es.disabled() {
		return status, nil
	}

	quotedTableName := quoteTableName(es.tableName, es.backend)

	// Get total entries
	row := es.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalEntries); err != nil {
		return status, fmt.Errorf("failed to get total entries: %w", err)
	}

	if status.TotalEntries == 0 {
		return status, nil
	}

	// Get newest and oldest update times
	var lastTs, oldestTs int64
	row = es.db.QueryRow(fmt.Sprintf("SELECT MAX(updated_at), MIN(updated_at) FROM %s", quotedTableName))
	if err := row.Scan(&lastTs, &oldestTs); err != nil {
		return status, fmt.Errorf("failed to get entry update times: %w", err)
	}
	status.LastUpdateTime = fromUnixNano(lastTs)
	status.OldestEntryTime = fromUnixNano(oldestTs)

	status.TableSizeBytes = es.tableSize(status.TotalEntries)
	return status, nil
}

// tableSize estimates the on-disk size of the entry table.
// Falls back to a rough per-row estimate when the backend cannot report it.
func (es *EntryStoreImpl) tableSize(totalEntries int) int64 {
	estimate := int64(totalEntries) * 1000
	var size int64

	switch es.backend {
	case schema.SQLiteBackend:
		// For SQLite, use page_count * page_size of the whole file
		row := es.db.QueryRow("SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()")
		if err := row.Scan(&size); err != nil {
			return 0
		}
		return size

	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(es.connStr)
		if err != nil || cfg.DBName == "" {
			return estimate
		}
		row := es.db.QueryRow(
			"SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?",
			cfg.DBName, es.tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
		return size

	case schema.PostgreSQLBackend:
		row := es.db.QueryRow("SELECT pg_total_relation_size($1)", es.tableName)
		if err := row.Scan(&size); err != nil {
			return estimate
		}
		return size

	default:
		return estimate
	}
}
