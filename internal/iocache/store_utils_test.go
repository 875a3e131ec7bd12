package iocache

import (
	"testing"
	"time"

	"github.com/huangsam/dhtcli/schema"
	"github.com/stretchr/testify/assert"
)

func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{name: "valid simple name", tableName: "dht_entries", wantErr: false},
		{name: "valid name with numbers", tableName: "dht_entries_2", wantErr: false},
		{name: "valid name starting with underscore", tableName: "_dht", wantErr: false},
		{name: "valid mixed case", tableName: "DhtEntries_1", wantErr: false},
		{name: "empty name", tableName: "", wantErr: true},
		{name: "starts with number", tableName: "1_entries", wantErr: true},
		{name: "contains dash", tableName: "dht-entries", wantErr: true},
		{name: "contains space", tableName: "dht entries", wantErr: true},
		{name: "sql injection attempt", tableName: "t'; DROP TABLE users; --", wantErr: true},
		{name: "contains dot", tableName: "db.entries", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err, "validateTableName should error for %q", tt.tableName)
			} else {
				assert.NoError(t, err, "validateTableName should not error for %q", tt.tableName)
			}
		})
	}
}

func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, `"dht_entries"`},
		{schema.MySQLBackend, "`dht_entries`"},
		{schema.PostgreSQLBackend, `"dht_entries"`},
		{schema.NoneBackend, `"dht_entries"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("dht_entries", tt.backend))
		})
	}
}

func TestRebind(t *testing.T) {
	query := "SELECT a FROM t WHERE x = ? AND y = ?"
	assert.Equal(t, query, rebind(schema.SQLiteBackend, query))
	assert.Equal(t, query, rebind(schema.MySQLBackend, query))
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y = $2", rebind(schema.PostgreSQLBackend, query))
}

func TestDriverFor(t *testing.T) {
	for backend, want := range map[schema.DatabaseBackend]string{
		schema.SQLiteBackend:     "sqlite",
		schema.MySQLBackend:      "mysql",
		schema.PostgreSQLBackend: "pgx",
	} {
		got, err := driverFor(backend)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := driverFor(schema.NoneBackend)
	assert.Error(t, err)
}

func TestUnixNanoRoundTrip(t *testing.T) {
	assert.Equal(t, int64(0), toUnixNano(time.Time{}))
	assert.True(t, fromUnixNano(0).IsZero())

	ts := time.Date(2025, time.June, 1, 8, 30, 0, 123456789, time.UTC)
	assert.True(t, ts.Equal(fromUnixNano(toUnixNano(ts))))
}
