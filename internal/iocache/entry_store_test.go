package iocache

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/dhtcli/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteEntryStore(t *testing.T) *EntryStoreImpl {
	t.Helper()
	store, err := NewEntryStore(entriesTable, schema.SQLiteBackend, ":memory:")
	require.NoError(t, err, "Failed to create SQLite store")
	t.Cleanup(func() { _ = store.Close() })
	return store.(*EntryStoreImpl)
}

func TestEntryStoreOperations(t *testing.T) {
	ctx := context.Background()

	t.Run("put and get", func(t *testing.T) {
		store := newSQLiteEntryStore(t)
		updated := time.Unix(0, 1_700_000_000_123_456_789)

		require.NoError(t, store.Put(ctx, "users", "1", []byte(`{"name":"ada"}`), updated))

		value, ts, err := store.Get(ctx, "users", "1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"name":"ada"}`, string(value))
		assert.True(t, updated.Equal(ts), "update time should round-trip with nanosecond precision")
	})

	t.Run("put replaces existing value", func(t *testing.T) {
		store := newSQLiteEntryStore(t)

		require.NoError(t, store.Put(ctx, "users", "1", []byte(`1`), time.Unix(10, 0)))
		require.NoError(t, store.Put(ctx, "users", "1", []byte(`2`), time.Unix(20, 0)))

		value, ts, err := store.Get(ctx, "users", "1")
		require.NoError(t, err)
		assert.Equal(t, `2`, string(value))
		assert.Equal(t, int64(20), ts.Unix())

		records, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("get missing entry", func(t *testing.T) {
		store := newSQLiteEntryStore(t)
		_, _, err := store.Get(ctx, "users", "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	t.Run("delete reports existence", func(t *testing.T) {
		store := newSQLiteEntryStore(t)
		require.NoError(t, store.Put(ctx, "users", "1", []byte(`true`), time.Now()))

		removed, err := store.Delete(ctx, "users", "1")
		require.NoError(t, err)
		assert.True(t, removed)

		removed, err = store.Delete(ctx, "users", "1")
		require.NoError(t, err)
		assert.False(t, removed, "second delete should find nothing")
	})

	t.Run("list is ordered by topic and uuid", func(t *testing.T) {
		store := newSQLiteEntryStore(t)
		now := time.Now()
		require.NoError(t, store.Put(ctx, "b", "2", []byte(`2`), now))
		require.NoError(t, store.Put(ctx, "a", "9", []byte(`9`), now))
		require.NoError(t, store.Put(ctx, "b", "1", []byte(`1`), now))

		records, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, records, 3)

		keys := make([]string, len(records))
		for i, r := range records {
			keys[i] = r.Topic + "/" + r.UUID
		}
		assert.Equal(t, []string{"a/9", "b/1", "b/2"}, keys)
	})
}

func TestEntryStoreNoneBackend(t *testing.T) {
	ctx := context.Background()
	store, err := NewEntryStore(entriesTable, schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Put(ctx, "t", "u", []byte(`1`), time.Now()))

	_, _, err = store.Get(ctx, "t", "u")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	removed, err := store.Delete(ctx, "t", "u")
	assert.NoError(t, err)
	assert.False(t, removed)

	records, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, records)

	assert.NoError(t, store.Close())
}

func TestNewEntryStoreErrors(t *testing.T) {
	t.Run("invalid table name", func(t *testing.T) {
		_, err := NewEntryStore("bad-name", schema.SQLiteBackend, ":memory:")
		assert.Error(t, err)
	})

	t.Run("unsupported backend", func(t *testing.T) {
		_, err := NewEntryStore(entriesTable, "redis", "")
		assert.ErrorContains(t, err, "unsupported backend")
	})

	t.Run("unreachable mysql", func(t *testing.T) {
		_, err := NewEntryStore(entriesTable, schema.MySQLBackend, "invalid://connection")
		assert.Error(t, err)
	})
}

func TestEntryStoreGetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("SQLite backend with data", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "status.db")
		store, err := NewEntryStore(entriesTable, schema.SQLiteBackend, path)
		require.NoError(t, err)
		defer func() { _ = store.Close() }()

		require.NoError(t, store.Put(ctx, "k", "1", []byte(`1`), time.Unix(1000, 0)))
		require.NoError(t, store.Put(ctx, "k", "2", []byte(`2`), time.Unix(2000, 0)))
		require.NoError(t, store.Put(ctx, "k", "3", []byte(`3`), time.Unix(1500, 0)))

		status, err := store.GetStatus()
		require.NoError(t, err)

		assert.Equal(t, "sqlite", status.Backend)
		assert.True(t, status.Connected)
		assert.Equal(t, 3, status.TotalEntries)
		assert.Equal(t, int64(2000), status.LastUpdateTime.Unix())
		assert.Equal(t, int64(1000), status.OldestEntryTime.Unix())
		assert.Greater(t, status.TableSizeBytes, int64(0))
	})

	t.Run("SQLite backend empty", func(t *testing.T) {
		store := newSQLiteEntryStore(t)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, 0, status.TotalEntries)
		assert.True(t, status.LastUpdateTime.IsZero())
		assert.Equal(t, int64(0), status.TableSizeBytes)
	})

	t.Run("None backend", func(t *testing.T) {
		store, err := NewEntryStore(entriesTable, schema.NoneBackend, "")
		require.NoError(t, err)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.Equal(t, "none", status.Backend)
		assert.False(t, status.Connected)
	})
}

func TestGetUpsertQuery(t *testing.T) {
	tests := []struct {
		backend  schema.DatabaseBackend
		contains string
	}{
		{schema.SQLiteBackend, "INSERT OR REPLACE"},
		{schema.MySQLBackend, "ON DUPLICATE KEY UPDATE"},
		{schema.PostgreSQLBackend, "ON CONFLICT (entry_topic, entry_uuid)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			store := &EntryStoreImpl{tableName: entriesTable, backend: tt.backend}
			assert.Contains(t, store.getUpsertQuery(), tt.contains)
		})
	}
}
