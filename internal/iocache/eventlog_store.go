package iocache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/huangsam/dhtcli/internal/contract"
	"github.com/huangsam/dhtcli/schema"
)

// eventLogTable is the name of the table for recorded events.
const eventLogTable = "dht_event_log"

// EventLogStoreImpl records drained events in arrival order.
type EventLogStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	now     func() time.Time
}

var _ contract.EventLogStore = &EventLogStoreImpl{} // Compile-time check

// NewEventLogStore creates a new EventLogStore with the specified backend.
func NewEventLogStore(backend schema.DatabaseBackend, connStr string) (contract.EventLogStore, error) {
	if backend == schema.NoneBackend {
		// Return a no-op store for disabled recording
		return &EventLogStoreImpl{backend: backend, now: time.Now}, nil
	}

	db, err := openDatabase(backend, connStr, contract.GetEventLogDBFilePath())
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(getCreateEventLogQuery(backend)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", eventLogTable, err)
	}

	return &EventLogStoreImpl{db: db, backend: backend, now: time.Now}, nil
}

// getCreateEventLogQuery returns the CREATE TABLE query for the given backend.
func getCreateEventLogQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(eventLogTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq BIGINT AUTO_INCREMENT PRIMARY KEY,
				event_kind VARCHAR(32) NOT NULL,
				payload LONGBLOB NOT NULL,
				recorded_at BIGINT NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq BIGSERIAL PRIMARY KEY,
				event_kind TEXT NOT NULL,
				payload BYTEA NOT NULL,
				recorded_at BIGINT NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				event_kind TEXT NOT NULL,
				payload BLOB NOT NULL,
				recorded_at INTEGER NOT NULL
			);
		`, quotedTableName)
	}
}

func (ls *EventLogStoreImpl) disabled() bool {
	return ls.backend == schema.NoneBackend || ls.db == nil
}

// Record appends an event to the log.
func (ls *EventLogStoreImpl) Record(ctx context.Context, ev schema.Event) error {
	if ls.disabled() {
		return nil
	}

	payload, err := schema.MarshalEvent(ev)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", ev.Kind(), err)
	}

	query := rebind(ls.backend, fmt.Sprintf(
		`INSERT INTO %s (event_kind, payload, recorded_at) VALUES (?, ?, ?)`,
		quoteTableName(eventLogTable, ls.backend)))
	if _, err := ls.db.ExecContext(ctx, query, string(ev.Kind()), payload, toUnixNano(ls.now())); err != nil {
		return fmt.Errorf("failed to record %s event: %w", ev.Kind(), err)
	}
	return nil
}

// List returns every recorded event in arrival order.
func (ls *EventLogStoreImpl) List(ctx context.Context) ([]schema.EventRecord, error) {
	if ls.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT seq, event_kind, payload, recorded_at FROM %s ORDER BY seq`,
		quoteTableName(eventLogTable, ls.backend))

	rows, err := ls.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.EventRecord
	for rows.Next() {
		var record schema.EventRecord
		var kind string
		var ts int64
		if err := rows.Scan(&record.Seq, &kind, &record.Payload, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		record.Kind = schema.EventKind(kind)
		record.RecordedAt = fromUnixNano(ts)
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return results, nil
}

// Close closes the underlying DB connection.
func (ls *EventLogStoreImpl) Close() error {
	if ls.db != nil {
		return ls.db.Close()
	}
	return nil
}

// GetStatus returns status information about the event log store.
func (ls *EventLogStoreImpl) GetStatus() (schema.EventLogStatus, error) {
	status := schema.EventLogStatus{
		Backend:    string(ls.backend),
		Connected:  ls.db != nil,
		KindCounts: make(map[schema.EventKind]int),
	}

	if ls.disabled() {
		return status, nil
	}

	quotedTableName := quoteTableName(eventLogTable, ls.backend)

	row := ls.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedTableName))
	if err := row.Scan(&status.TotalEvents); err != nil {
		return status, fmt.Errorf("failed to get total events: %w", err)
	}

	if status.TotalEvents == 0 {
		return status, nil
	}

	var lastTs, firstTs int64
	row = ls.db.QueryRow(fmt.Sprintf("SELECT MAX(recorded_at), MIN(recorded_at) FROM %s", quotedTableName))
	if err := row.Scan(&lastTs, &firstTs); err != nil {
		return status, fmt.Errorf("failed to get event times: %w", err)
	}
	status.LastEventTime = fromUnixNano(lastTs)
	status.FirstEventTime = fromUnixNano(firstTs)

	rows, err := ls.db.Query(fmt.Sprintf("SELECT event_kind, COUNT(*) FROM %s GROUP BY event_kind", quotedTableName))
	if err != nil {
		return status, fmt.Errorf("failed to count events by kind: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return status, fmt.Errorf("failed to scan event kind count: %w", err)
		}
		status.KindCounts[schema.EventKind(kind)] = count
	}
	return status, rows.Err()
}
