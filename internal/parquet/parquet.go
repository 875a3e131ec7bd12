// Package parquet provides row types and writers for exporting stored cache
// entries and the recorded event log using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/dhtcli/schema"
	"github.com/parquet-go/parquet-go"
)

// EntryRow represents a single persistent entry.
// This struct maps to the dht_entries database table.
type EntryRow struct {
	// Topic is the first half of the entry key
	Topic string `parquet:"topic,snappy,dict"`

	// UUID is the second half of the entry key
	UUID string `parquet:"uuid,snappy"`

	// Value is the JSON document stored under the key
	Value string `parquet:"value,snappy"`

	// UpdatedAt is when the entry was last written (TIMESTAMP with nanosecond precision)
	UpdatedAt time.Time `parquet:"updated_at,snappy"`
}

// EventRow represents a single event drained from the cache event stream.
// This struct maps to the dht_event_log database table.
type EventRow struct {
	Seq        int64     `parquet:"seq,snappy"`
	Kind       string    `parquet:"kind,snappy,dict"`
	Payload    string    `parquet:"payload,snappy"`
	RecordedAt time.Time `parquet:"recorded_at,snappy"`

	// Topic and UUID are only set for persistent data events
	Topic *string `parquet:"topic,optional,snappy"`
	UUID  *string `parquet:"uuid,optional,snappy"`
}

// WriteEntriesParquet writes entry rows to a Parquet file.
func WriteEntriesParquet(data []EntryRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteEventsParquet writes event rows to a Parquet file.
func WriteEventsParquet(data []EventRow, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows of any tagged struct type, inferring the schema from T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertEntryRecords converts schema.EntryRecord to EntryRow for Parquet export.
func ConvertEntryRecords(records []schema.EntryRecord) []EntryRow {
	result := make([]EntryRow, len(records))
	for i, record := range records {
		result[i] = EntryRow{
			Topic:     record.Topic,
			UUID:      record.UUID,
			Value:     string(record.Value),
			UpdatedAt: record.UpdatedAt,
		}
	}
	return result
}

// ConvertEventRecords converts schema.EventRecord to EventRow for Parquet export.
// Persistent data payloads are decoded so their key lands in dedicated columns.
func ConvertEventRecords(records []schema.EventRecord) []EventRow {
	result := make([]EventRow, len(records))
	for i, record := range records {
		row := EventRow{
			Seq:        record.Seq,
			Kind:       string(record.Kind),
			Payload:    string(record.Payload),
			RecordedAt: record.RecordedAt,
		}
		if record.Kind == schema.PersistentDataKind {
			if ev, err := schema.UnmarshalEvent(record.Kind, record.Payload); err == nil {
				element := ev.(schema.PersistentData).Element
				row.Topic = &element.Topic
				row.UUID = &element.UUID
			}
		}
		result[i] = row
	}
	return result
}
