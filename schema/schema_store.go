package schema

import "time"

// EntryRecord represents a row from the dht_entries table.
type EntryRecord struct {
	Topic     string
	UUID      string
	Value     []byte
	UpdatedAt time.Time
}

// EventRecord represents a row from the dht_event_log table.
type EventRecord struct {
	Seq        int64
	Kind       EventKind
	Payload    []byte // JSON encoding of the event
	RecordedAt time.Time
}
